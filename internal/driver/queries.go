package driver

const (
	SaveTargetQuery = `
		MERGE (n:Target {uuid: $uuid})
		SET n.case_id = $case_id,
			n.name = $name,
			n.created_at = $created_at,
			n.emails = $emails,
			n.phones = $phones,
			n.usernames = $usernames,
			n.ips = $ips,
			n.addresses = $addresses,
			n.sources = $sources,
			n.summary = $summary
		RETURN n.uuid AS uuid
	`

	GetTargetQuery = `
		MATCH (n:Target {uuid: $uuid})
		RETURN n.uuid AS uuid, n.case_id AS case_id, n.name AS name,
			n.created_at AS created_at, n.emails AS emails, n.phones AS phones,
			n.usernames AS usernames, n.ips AS ips, n.addresses AS addresses,
			n.sources AS sources, n.summary AS summary
	`

	GetCaseTargetsQuery = `
		MATCH (n:Target {case_id: $case_id})
		WHERE n.uuid <> $exclude_uuid
		RETURN n.uuid AS uuid, n.case_id AS case_id, n.name AS name,
			n.created_at AS created_at, n.emails AS emails, n.phones AS phones,
			n.usernames AS usernames, n.ips AS ips, n.addresses AS addresses,
			n.sources AS sources, n.summary AS summary
		ORDER BY n.created_at, n.uuid
	`

	// Undirected pattern: a correlation stored as (a)->(b) is found when
	// queried as (b, a) as well.
	FindCorrelationQuery = `
		MATCH (a:Target {uuid: $a_uuid})-[c:CORRELATED_WITH]-(b:Target {uuid: $b_uuid})
		RETURN c.uuid AS uuid, c.target_a_uuid AS target_a_uuid,
			c.target_b_uuid AS target_b_uuid, c.case_id AS case_id,
			c.correlation_type AS correlation_type,
			c.matching_fields AS matching_fields, c.confidence AS confidence,
			c.shared_data AS shared_data, c.verified AS verified,
			c.created_at AS created_at, c.updated_at AS updated_at
		LIMIT 1
	`

	InsertCorrelationQuery = `
		MATCH (a:Target {uuid: $target_a_uuid})
		MATCH (b:Target {uuid: $target_b_uuid})
		CREATE (a)-[c:CORRELATED_WITH {uuid: $uuid}]->(b)
		SET c.target_a_uuid = $target_a_uuid,
			c.target_b_uuid = $target_b_uuid,
			c.case_id = $case_id,
			c.correlation_type = $correlation_type,
			c.matching_fields = $matching_fields,
			c.confidence = $confidence,
			c.shared_data = $shared_data,
			c.verified = $verified,
			c.created_at = $created_at,
			c.updated_at = $updated_at
		RETURN c.uuid AS uuid
	`

	UpdateCorrelationQuery = `
		MATCH ()-[c:CORRELATED_WITH {uuid: $uuid}]->()
		SET c.correlation_type = $correlation_type,
			c.matching_fields = $matching_fields,
			c.confidence = $confidence,
			c.shared_data = $shared_data,
			c.updated_at = $updated_at
		RETURN c.uuid AS uuid
	`

	ListTargetCorrelationsQuery = `
		MATCH (a:Target {uuid: $uuid})-[c:CORRELATED_WITH]-(b:Target)
		RETURN c.uuid AS uuid, c.target_a_uuid AS target_a_uuid,
			c.target_b_uuid AS target_b_uuid, c.case_id AS case_id,
			c.correlation_type AS correlation_type,
			c.matching_fields AS matching_fields, c.confidence AS confidence,
			c.shared_data AS shared_data, c.verified AS verified,
			c.created_at AS created_at, c.updated_at AS updated_at
		ORDER BY c.confidence DESC, c.uuid
	`

	ListCaseCorrelationsQuery = `
		MATCH ()-[c:CORRELATED_WITH {case_id: $case_id}]->()
		RETURN c.uuid AS uuid, c.target_a_uuid AS target_a_uuid,
			c.target_b_uuid AS target_b_uuid, c.case_id AS case_id,
			c.correlation_type AS correlation_type,
			c.matching_fields AS matching_fields, c.confidence AS confidence,
			c.shared_data AS shared_data, c.verified AS verified,
			c.created_at AS created_at, c.updated_at AS updated_at
		ORDER BY c.confidence DESC, c.uuid
	`

	SetCorrelationVerifiedQuery = `
		MATCH ()-[c:CORRELATED_WITH {uuid: $uuid}]->()
		SET c.verified = $verified,
			c.updated_at = $updated_at
		RETURN c.uuid AS uuid
	`
)
