// Package extraction turns raw search-provider rows into extracted
// identity records. Mapping is deterministic: well-known keys are matched
// case-insensitively and values are validated by shape before they are
// accepted.
package extraction

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/skeinhq/skein/internal/core/model"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	ipv4Pattern  = regexp.MustCompile(`^(\d{1,3}\.){3}\d{1,3}$`)
)

// minPhoneDigits is the extraction-time floor; shorter values are almost
// always row IDs or junk.
const minPhoneDigits = 7

// fieldKeys maps normalized source keys to record fields.
var fieldKeys = map[string]string{
	"email":          "email",
	"emailaddress":   "email",
	"mail":           "email",
	"phone":          "phone",
	"phonenumber":    "phone",
	"mobile":         "phone",
	"telephone":      "phone",
	"name":           "name",
	"fullname":       "name",
	"realname":       "name",
	"username":       "username",
	"login":          "username",
	"handle":         "username",
	"screenname":     "username",
	"password":       "password",
	"pass":           "password",
	"plaintext":      "password",
	"ip":             "ip",
	"ipaddress":      "ip",
	"lastip":         "ip",
	"registrationip": "ip",
	"address":        "address",
	"streetaddress":  "address",
	"location":       "address",
}

// socialPatterns recognizes profile URLs per platform. The first capture
// group is the handle.
var socialPatterns = map[string]*regexp.Regexp{
	"twitter":   regexp.MustCompile(`https?://(?:www\.)?(?:twitter|x)\.com/([A-Za-z0-9_]{1,30})`),
	"instagram": regexp.MustCompile(`https?://(?:www\.)?instagram\.com/([A-Za-z0-9_.]{1,40})`),
	"facebook":  regexp.MustCompile(`https?://(?:www\.)?facebook\.com/([A-Za-z0-9.]{1,60})`),
	"github":    regexp.MustCompile(`https?://(?:www\.)?github\.com/([A-Za-z0-9-]{1,50})`),
	"linkedin":  regexp.MustCompile(`https?://(?:www\.)?linkedin\.com/in/([A-Za-z0-9-]{1,80})`),
	"telegram":  regexp.MustCompile(`https?://(?:www\.)?t\.me/([A-Za-z0-9_]{1,40})`),
}

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractRecords maps each row to a record and drops the ones that carry
// no identity signal at all.
func (e *Extractor) ExtractRecords(rows []model.ResultRow) []model.ExtractedRecord {
	var records []model.ExtractedRecord
	for _, row := range rows {
		rec := e.extractRow(row)
		if rec.Empty() {
			continue
		}
		records = append(records, rec)
	}
	return records
}

func (e *Extractor) extractRow(row model.ResultRow) model.ExtractedRecord {
	var rec model.ExtractedRecord

	var street, city string

	// Walk the row in key order so extraction is deterministic.
	keys := make([]string, 0, len(row.Fields))
	for k := range row.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		s := stringValue(row.Fields[key])
		if s == "" {
			continue
		}

		normKey := normalizeKey(key)
		switch normKey {
		case "street":
			street = s
			continue
		case "city":
			city = s
			continue
		}

		if field, ok := fieldKeys[normKey]; ok {
			e.setField(&rec, field, s)
		}

		// Any string value may carry a recognizable profile URL.
		e.collectSocialProfiles(&rec, s)
	}

	// Rows that split the address into street/city get it recomposed.
	if rec.Address == "" && (street != "" || city != "") {
		rec.Address = joinAddress(street, city)
	}

	if !rec.Empty() {
		rec.RawData = make(map[string]interface{}, len(row.Fields)+1)
		for k, v := range row.Fields {
			rec.RawData[k] = v
		}
		rec.RawData["source"] = row.Source
	}

	return rec
}

// setField validates by shape and keeps the first accepted value.
func (e *Extractor) setField(rec *model.ExtractedRecord, field, value string) {
	switch field {
	case "email":
		if rec.Email == "" && emailPattern.MatchString(value) {
			rec.Email = value
		}
	case "phone":
		if rec.Phone == "" && digitCount(value) >= minPhoneDigits {
			rec.Phone = value
		}
	case "name":
		if rec.Name == "" {
			rec.Name = value
		}
	case "username":
		if rec.Username == "" {
			rec.Username = value
		}
	case "password":
		if rec.Password == "" {
			rec.Password = value
		}
	case "ip":
		if rec.IP == "" && ipv4Pattern.MatchString(value) {
			rec.IP = value
		}
	case "address":
		if rec.Address == "" {
			rec.Address = value
		}
	}
}

// socialPlatforms fixes the scan order so profile lists are stable.
var socialPlatforms = []string{"twitter", "instagram", "facebook", "github", "linkedin", "telegram"}

func (e *Extractor) collectSocialProfiles(rec *model.ExtractedRecord, value string) {
	for _, platform := range socialPlatforms {
		m := socialPatterns[platform].FindStringSubmatch(value)
		if m == nil {
			continue
		}
		username := m[1]
		exists := false
		for _, p := range rec.SocialProfiles {
			if p.Platform == platform && p.Username == username {
				exists = true
				break
			}
		}
		if !exists {
			rec.SocialProfiles = append(rec.SocialProfiles, model.SocialProfile{
				Platform: platform,
				Username: username,
				URL:      m[0],
			})
		}
	}
}

func joinAddress(street, city string) string {
	switch {
	case street == "":
		return city
	case city == "":
		return street
	default:
		return street + ", " + city
	}
}

func normalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	key = strings.ReplaceAll(key, "_", "")
	key = strings.ReplaceAll(key, "-", "")
	key = strings.ReplaceAll(key, " ", "")
	return key
}

func stringValue(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case fmt.Stringer:
		return strings.TrimSpace(t.String())
	case float64, int, int64:
		return fmt.Sprintf("%v", t)
	default:
		return ""
	}
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
