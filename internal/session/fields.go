package session

import (
	"encoding/json"
	"fmt"

	"github.com/kylejryan/claims-admin/internal/models"
)

// Fields is a partial Client keyed by its JSON field names.
type Fields map[string]any

// NewFields decodes a JSON object into Fields. Collection keys are dropped and
// every value must decode into the matching Client field.
func NewFields(raw []byte) (Fields, error) {
	var f Fields
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("fields: %w", err)
	}
	f = f.withoutCollections()
	var decoded models.Client
	b, _ := json.Marshal(f)
	if err := json.Unmarshal(b, &decoded); err != nil {
		return nil, fmt.Errorf("fields: %w", err)
	}
	return f, nil
}

// FieldsOf converts a full client into Fields, without its collections.
func FieldsOf(c models.Client) Fields {
	b, _ := json.Marshal(c)
	var f Fields
	_ = json.Unmarshal(b, &f)
	return f.withoutCollections()
}

// merged returns a new map holding f overlaid by patch.
func (f Fields) merged(patch Fields) Fields {
	out := make(Fields, len(f)+len(patch))
	for k, v := range f {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}

func (f Fields) clone() Fields { return Fields{}.merged(f) }

func (f Fields) withoutCollections() Fields {
	out := f.clone()
	for _, k := range models.CollectionKeys {
		delete(out, k)
	}
	return out
}

// pick splits f into the keys in owned and the rest.
func (f Fields) pick(owned map[string]struct{}) (in, rest Fields) {
	in, rest = Fields{}, Fields{}
	for k, v := range f {
		if _, ok := owned[k]; ok {
			in[k] = v
		} else {
			rest[k] = v
		}
	}
	return in, rest
}

func keySet(keys ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		m[k] = struct{}{}
	}
	return m
}

// Field ownership per tab accordion, used when a server response is split back
// into slices.
var (
	companyInfoKeys = keySet(
		"ClientName", "PrintName", "ClientGroupId", "Address", "Tel", "Fax",
		"Mobile", "WebURL", "CompanyLogo", "CompanyLogoData", "IsActive",
	)
	claimInfoKeys = keySet(
		"ClaimsManager", "ClaimFormDeclaration", "ClaimFormDeclarationPlain",
		"ProcessClaims", "NearestClaimCentre", "EnableVoucherExportOnDeathClaim",
	)
	customLabelKeys = keySet(
		"PolicyLookup", "PolicyLabel", "PolicyFile", "PolicyLookupPath",
		"PolicyLookupFileName", "PolicyLookupFileData", "UseMembershipNumber",
		"Validate", "ValidationWeb", "ValidationOther", "ValidationExternalFile",
		"WebValidationAVS", "WebValidationOTH", "WebValidationURL",
		"OtherValidationNotes", "ValidationLabel1", "ValidationLabel2",
		"ValidationLabel3", "ValidationLabel4", "ValidationLabel5",
		"ValidationLabel6", "DoTextExport",
	)
)
