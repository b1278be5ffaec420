package models

// LookupKind names a lookup list served to the edit tabs.
type LookupKind string

// Lookup lists.
const (
	LookupUsers               LookupKind = "users"
	LookupClientGroups        LookupKind = "client-groups"
	LookupServiceTypes        LookupKind = "service-types"
	LookupDocumentTypes       LookupKind = "document-types"
	LookupRatingQuestionTypes LookupKind = "rating-question-types"
)

// LookupKinds lists every lookup kind.
var LookupKinds = []LookupKind{
	LookupUsers,
	LookupClientGroups,
	LookupServiceTypes,
	LookupDocumentTypes,
	LookupRatingQuestionTypes,
}

// Valid reports whether k is a known lookup kind.
func (k LookupKind) Valid() bool {
	for _, v := range LookupKinds {
		if v == k {
			return true
		}
	}
	return false
}

// User is an operator account; active users populate the claims manager list.
type User struct {
	AspNetUserId int64    `json:"AspNetUserId" dynamodbav:"asp_net_user_id"`
	UserName     string   `json:"UserName" dynamodbav:"user_name"`
	UserEmail    string   `json:"UserEmail" dynamodbav:"user_email"`
	Firstname    string   `json:"Firstname" dynamodbav:"firstname"`
	Lastname     string   `json:"Lastname" dynamodbav:"lastname"`
	IsActive     bool     `json:"IsActive" dynamodbav:"is_active"`
	IsAdmin      bool     `json:"IsAdmin" dynamodbav:"is_admin"`
	IsDeleted    bool     `json:"IsDeleted" dynamodbav:"is_deleted"`
	Roles        []string `json:"Roles,omitempty" dynamodbav:"roles,omitempty"`
}

// ServiceType is a service a client can offer.
type ServiceType struct {
	ServiceId   int64  `json:"ServiceId" dynamodbav:"service_id"`
	Description string `json:"Description" dynamodbav:"description"`
	IsActive    bool   `json:"IsActive" dynamodbav:"is_active"`
	IsDeleted   bool   `json:"IsDeleted" dynamodbav:"is_deleted"`
}

// DocumentType is a kind of document that can be linked to a client.
type DocumentType struct {
	DocumentId  int64  `json:"DocumentId" dynamodbav:"document_id"`
	Description string `json:"Description" dynamodbav:"description"`
	IsActive    bool   `json:"IsActive" dynamodbav:"is_active"`
	IsDeleted   bool   `json:"IsDeleted" dynamodbav:"is_deleted"`
}

// RatingQuestionType groups rating questions and their options.
type RatingQuestionType struct {
	RatingQuestionTypeId int64    `json:"RatingQuestionTypeId" dynamodbav:"rating_question_type_id"`
	QuestionType         string   `json:"QuestionType" dynamodbav:"question_type"`
	IncludeInRatingCalcs bool     `json:"IncludeInRatingCalcs" dynamodbav:"include_in_rating_calcs"`
	PredefinedOptions    []string `json:"PredefinedOptions,omitempty" dynamodbav:"predefined_options,omitempty"`
	IsActive             bool     `json:"IsActive" dynamodbav:"is_active"`
	IsDeleted            bool     `json:"IsDeleted" dynamodbav:"is_deleted"`
}

// RatingQuestion is the display record attached to a ClientRatingQuestion row.
type RatingQuestion struct {
	RatingQuestionId     int64  `json:"RatingQuestionId"`
	RatingQuestionTypeId int64  `json:"RatingQuestionTypeId"`
	Question             string `json:"Question"`
	ListRank             int    `json:"ListRank"`
	IsActive             bool   `json:"IsActive"`
	IsDeleted            bool   `json:"IsDeleted,omitempty"`
}

// Lookups is the full set of lookup lists loaded for the edit tabs.
type Lookups struct {
	Users               []User               `json:"users"`
	ClientGroups        []ClientGroup        `json:"clientGroups"`
	ServiceTypes        []ServiceType        `json:"serviceTypes"`
	DocumentTypes       []DocumentType       `json:"documentTypes"`
	RatingQuestionTypes []RatingQuestionType `json:"ratingQuestionTypes"`
}
