// Package models defines the data models used in the application.
package models

// ClientGroup is the lookup record a client belongs to.
type ClientGroup struct {
	ClientGroupId int64  `json:"ClientGroupId" dynamodbav:"client_group_id"`
	Name          string `json:"Name" dynamodbav:"name"`
	IsActive      bool   `json:"IsActive" dynamodbav:"is_active"`
	IsDeleted     bool   `json:"IsDeleted,omitempty" dynamodbav:"is_deleted"`
}

// Client is the persisted client entity assembled by an edit session.
type Client struct {
	ClientId      int64        `json:"ClientId" dynamodbav:"client_id"`
	ClientName    string       `json:"ClientName" dynamodbav:"client_name"`
	PrintName     string       `json:"PrintName" dynamodbav:"print_name"`
	ClientGroupId int64        `json:"ClientGroupId" dynamodbav:"client_group_id"`
	ClientGroup   *ClientGroup `json:"ClientGroup,omitempty" dynamodbav:"client_group,omitempty"`
	Code          string       `json:"Code" dynamodbav:"code"`

	// company information
	Address         string  `json:"Address" dynamodbav:"address"`
	Tel             string  `json:"Tel" dynamodbav:"tel"`
	Fax             string  `json:"Fax" dynamodbav:"fax"`
	Mobile          string  `json:"Mobile" dynamodbav:"mobile"`
	WebURL          string  `json:"WebURL" dynamodbav:"web_url"`
	CompanyLogo     string  `json:"CompanyLogo" dynamodbav:"company_logo"`
	CompanyLogoData *string `json:"CompanyLogoData" dynamodbav:"company_logo_data,omitempty"`

	// claim information
	ClaimsManager                   string `json:"ClaimsManager" dynamodbav:"claims_manager"`
	ClaimFormDeclaration            string `json:"ClaimFormDeclaration" dynamodbav:"claim_form_declaration"`
	ClaimFormDeclarationPlain       string `json:"ClaimFormDeclarationPlain" dynamodbav:"claim_form_declaration_plain"`
	ProcessClaims                   bool   `json:"ProcessClaims" dynamodbav:"process_claims"`
	NearestClaimCentre              bool   `json:"NearestClaimCentre" dynamodbav:"nearest_claim_centre"`
	EnableVoucherExportOnDeathClaim bool   `json:"EnableVoucherExportOnDeathClaim" dynamodbav:"enable_voucher_export_on_death_claim"`

	// policy lookup and validation (custom labels tab)
	PolicyLookup           bool    `json:"PolicyLookup" dynamodbav:"policy_lookup"`
	PolicyLabel            string  `json:"PolicyLabel" dynamodbav:"policy_label"`
	PolicyFile             string  `json:"PolicyFile" dynamodbav:"policy_file"`
	PolicyLookupPath       string  `json:"PolicyLookupPath" dynamodbav:"policy_lookup_path"`
	PolicyLookupFileName   string  `json:"PolicyLookupFileName" dynamodbav:"policy_lookup_file_name"`
	PolicyLookupFileData   *string `json:"PolicyLookupFileData" dynamodbav:"policy_lookup_file_data,omitempty"`
	UseMembershipNumber    bool    `json:"UseMembershipNumber" dynamodbav:"use_membership_number"`
	Validate               bool    `json:"Validate" dynamodbav:"validate"`
	ValidationWeb          bool    `json:"ValidationWeb" dynamodbav:"validation_web"`
	ValidationOther        bool    `json:"ValidationOther" dynamodbav:"validation_other"`
	ValidationExternalFile bool    `json:"ValidationExternalFile" dynamodbav:"validation_external_file"`
	WebValidationAVS       bool    `json:"WebValidationAVS" dynamodbav:"web_validation_avs"`
	WebValidationOTH       bool    `json:"WebValidationOTH" dynamodbav:"web_validation_oth"`
	WebValidationURL       string  `json:"WebValidationURL" dynamodbav:"web_validation_url"`
	OtherValidationNotes   string  `json:"OtherValidationNotes" dynamodbav:"other_validation_notes"`
	ValidationLabel1       *string `json:"ValidationLabel1" dynamodbav:"validation_label_1,omitempty"`
	ValidationLabel2       *string `json:"ValidationLabel2" dynamodbav:"validation_label_2,omitempty"`
	ValidationLabel3       *string `json:"ValidationLabel3" dynamodbav:"validation_label_3,omitempty"`
	ValidationLabel4       *string `json:"ValidationLabel4" dynamodbav:"validation_label_4,omitempty"`
	ValidationLabel5       *string `json:"ValidationLabel5" dynamodbav:"validation_label_5,omitempty"`
	ValidationLabel6       *string `json:"ValidationLabel6" dynamodbav:"validation_label_6,omitempty"`
	DoTextExport           bool    `json:"DoTextExport" dynamodbav:"do_text_export"`

	IsActive bool `json:"IsActive" dynamodbav:"is_active"`

	// Collections are stored as their own items, never on the profile row.
	ClientService         []ClientService         `json:"ClientService" dynamodbav:"-"`
	ClientRatingQuestion  []ClientRatingQuestion  `json:"ClientRatingQuestion" dynamodbav:"-"`
	ClientDocument        []ClientDocument        `json:"ClientDocument" dynamodbav:"-"`
	ClientClaimCentre     []ClientClaimCentre     `json:"ClientClaimCentre" dynamodbav:"-"`
	ClientServiceProvider []ClientServiceProvider `json:"ClientServiceProvider" dynamodbav:"-"`
	ClientClaimController []ClientClaimController `json:"ClientClaimController" dynamodbav:"-"`
}

// CollectionKeys lists the JSON keys of Client that hold collections.
var CollectionKeys = []string{
	"ClientService",
	"ClientRatingQuestion",
	"ClientDocument",
	"ClientClaimCentre",
	"ClientServiceProvider",
	"ClientClaimController",
}
