// Smoke-tests a running server end to end: ingest a small batch of rows,
// analyze the resulting targets, and read back correlations and networks.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

func main() {
	baseURL := os.Getenv("SKEIN_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	caseID := fmt.Sprintf("smoke-%d", time.Now().Unix())
	fmt.Printf("Running smoke test against %s (case %s)\n", baseURL, caseID)

	// 1. Ingest two batches. The first batch's rows share an email and
	// collapse into one target; the second batch is a different person
	// reusing the same phone, kept separate because grouping only runs
	// within a batch.
	firstBatch := map[string]interface{}{
		"results": []map[string]interface{}{
			{
				"source": "breach_db",
				"fields": map[string]interface{}{
					"email": "jsmith@example.com",
					"name":  "John Smith",
					"phone": "+1 555 123 4567",
				},
			},
			{
				"source": "social_scan",
				"fields": map[string]interface{}{
					"email":    "jsmith@example.com",
					"username": "jsmith88",
				},
			},
		},
	}
	secondBatch := map[string]interface{}{
		"results": []map[string]interface{}{
			{
				"source": "registry",
				"fields": map[string]interface{}{
					"name":  "Maria Lopez",
					"phone": "15551234567",
				},
			},
		},
	}

	var ingest struct {
		Targets []struct {
			UUID string `json:"uuid"`
		} `json:"targets"`
	}
	if !request("POST", baseURL+"/cases/"+caseID+"/results", firstBatch, &ingest) {
		fail("ingest")
	}
	if len(ingest.Targets) != 1 {
		fail("first batch should consolidate into one target")
	}
	if !request("POST", baseURL+"/cases/"+caseID+"/results", secondBatch, nil) {
		fail("ingest second batch")
	}
	fmt.Println("PASSED: ingest")

	// 2. Analyze the first target against the rest of the case.
	var analysis struct {
		CorrelationCount int `json:"correlation_count"`
	}
	if !request("POST", baseURL+"/targets/"+ingest.Targets[0].UUID+"/analyze", nil, &analysis) {
		fail("analyze")
	}
	fmt.Printf("PASSED: analyze (%d correlations)\n", analysis.CorrelationCount)

	// 3. Read back the correlations.
	var correlations struct {
		Correlations []struct {
			UUID       string `json:"uuid"`
			Confidence int    `json:"confidence_score"`
		} `json:"correlations"`
	}
	if !request("GET", baseURL+"/targets/"+ingest.Targets[0].UUID+"/correlations", nil, &correlations) {
		fail("list correlations")
	}
	fmt.Printf("PASSED: list correlations (%d)\n", len(correlations.Correlations))

	// 4. Verify one if any exist.
	if len(correlations.Correlations) > 0 {
		payload := map[string]interface{}{"verified": true}
		if !request("PUT", baseURL+"/correlations/"+correlations.Correlations[0].UUID+"/verify", payload, nil) {
			fail("verify correlation")
		}
		fmt.Println("PASSED: verify correlation")
	}

	// 5. Linked networks for the case.
	var networks struct {
		Networks []struct {
			Targets []struct {
				UUID string `json:"uuid"`
			} `json:"targets"`
		} `json:"networks"`
	}
	if !request("GET", baseURL+"/cases/"+caseID+"/networks", nil, &networks) {
		fail("list networks")
	}
	fmt.Printf("PASSED: list networks (%d)\n", len(networks.Networks))

	fmt.Println("Smoke test complete.")
}

func request(method, url string, payload interface{}, out interface{}) bool {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			fmt.Printf("marshal error: %v\n", err)
			return false
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		fmt.Printf("request error: %v\n", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("http error: %v\n", err)
		return false
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("unexpected status %d: %s\n", resp.StatusCode, string(raw))
		return false
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			fmt.Printf("decode error: %v\n", err)
			return false
		}
	}
	return true
}

func fail(step string) {
	fmt.Printf("FAILED: %s\n", step)
	os.Exit(1)
}
