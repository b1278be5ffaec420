// Package validate checks the shape of a client payload before it is saved.
package validate

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/kylejryan/claims-admin/internal/models"
)

// http(s) optional, host with a dotted TLD, optional path.
var webURLRx = regexp.MustCompile(`(?i)^(https?://)?([\w.-]+)\.[a-z]{2,}(/[\w./#-]*)?$`)

var phoneRx = regexp.MustCompile(`^\+?[0-9 ()-]{7,20}$`)

// ValidationError carries one message per offending field.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid client: " + strings.Join(parts, "; ")
}

type collector map[string]string

func (c collector) add(field, msg string) {
	if _, ok := c[field]; !ok {
		c[field] = msg
	}
}

func (c collector) err() error {
	if len(c) == 0 {
		return nil
	}
	return &ValidationError{Fields: c}
}

// Client checks a prepared client payload. It returns a *ValidationError or nil.
func Client(c models.Client) error {
	errs := collector{}

	if strings.TrimSpace(c.ClientName) == "" {
		errs.add("ClientName", "required")
	}
	if c.ClientGroupId <= 0 {
		errs.add("ClientGroupId", "required")
	}
	if err := WebURL(c.WebURL); err != nil {
		errs.add("WebURL", err.Error())
	}
	for field, v := range map[string]string{"Tel": c.Tel, "Mobile": c.Mobile, "Fax": c.Fax} {
		if err := Phone(v); err != nil {
			errs.add(field, err.Error())
		}
	}

	seen := map[int64]bool{}
	for i, s := range c.ClientService {
		if s.ServiceId <= 0 {
			errs.add(fmt.Sprintf("ClientService[%d].ServiceId", i), "required")
		} else if seen[s.ServiceId] {
			errs.add(fmt.Sprintf("ClientService[%d].ServiceId", i), "duplicate service")
		}
		seen[s.ServiceId] = true
	}
	for i, q := range c.ClientRatingQuestion {
		if q.RatingQuestionId <= 0 {
			errs.add(fmt.Sprintf("ClientRatingQuestion[%d].RatingQuestionId", i), "required")
		}
	}
	for i, d := range c.ClientDocument {
		if d.DocumentId <= 0 {
			errs.add(fmt.Sprintf("ClientDocument[%d].DocumentId", i), "required")
		}
		if d.FileData == "" {
			continue
		}
		if strings.TrimSpace(d.FileName) == "" {
			errs.add(fmt.Sprintf("ClientDocument[%d].FileName", i), "required with file data")
		}
		if _, err := base64.StdEncoding.DecodeString(d.FileData); err != nil {
			errs.add(fmt.Sprintf("ClientDocument[%d].FileData", i), "not valid base64")
		}
	}
	for i, cc := range c.ClientClaimCentre {
		if cc.ClaimCentreId <= 0 {
			errs.add(fmt.Sprintf("ClientClaimCentre[%d].ClaimCentreId", i), "required")
		}
	}
	for i, p := range c.ClientServiceProvider {
		if p.ServiceProviderId <= 0 {
			errs.add(fmt.Sprintf("ClientServiceProvider[%d].ServiceProviderId", i), "required")
		}
	}
	for i, cc := range c.ClientClaimController {
		if strings.TrimSpace(cc.UserName) == "" {
			errs.add(fmt.Sprintf("ClientClaimController[%d].UserName", i), "required")
		}
	}
	return errs.err()
}

// WebURL accepts an empty value or a host with an optional scheme and path.
func WebURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || webURLRx.MatchString(s) {
		return nil
	}
	return fmt.Errorf("invalid web address")
}

// Phone accepts an empty value or digits with the usual separators.
func Phone(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || phoneRx.MatchString(s) {
		return nil
	}
	return fmt.Errorf("invalid phone number")
}
