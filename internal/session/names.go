package session

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSlice is returned when a slice name does not match any slice.
var ErrUnknownSlice = errors.New("unknown slice")

// ErrUnknownCollection is returned when a collection name does not match any collection.
var ErrUnknownCollection = errors.New("unknown collection")

// ErrUnknownTab is returned when a tab name does not match any tab.
var ErrUnknownTab = errors.New("unknown tab")

// SliceName identifies one of the patchable scalar slices.
type SliceName string

// Slices, listed in snapshot precedence order (later wins).
const (
	SliceClientData   SliceName = "clientData"
	SliceCompanyInfo  SliceName = "companyInfo"
	SliceCustomLabels SliceName = "customLabels"
	SliceClaimInfo    SliceName = "claimInfo"
)

// ParseSliceName validates s.
func ParseSliceName(s string) (SliceName, error) {
	switch n := SliceName(s); n {
	case SliceClientData, SliceCompanyInfo, SliceCustomLabels, SliceClaimInfo:
		return n, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSlice, s)
}

// CollectionName identifies one of the per-tab collections.
type CollectionName string

// Collections.
const (
	CollectionServices         CollectionName = "services"
	CollectionRatingQuestions  CollectionName = "ratingQuestions"
	CollectionDocuments        CollectionName = "documents"
	CollectionClaimCentres     CollectionName = "claimCentres"
	CollectionServiceProviders CollectionName = "serviceProviders"
	CollectionClaimControllers CollectionName = "claimControllers"
)

// ParseCollectionName validates s.
func ParseCollectionName(s string) (CollectionName, error) {
	switch n := CollectionName(s); n {
	case CollectionServices, CollectionRatingQuestions, CollectionDocuments,
		CollectionClaimCentres, CollectionServiceProviders, CollectionClaimControllers:
		return n, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCollection, s)
}

// Tab is the edit tab currently shown for a session.
type Tab int

// Tabs, in display order.
const (
	TabDetails Tab = iota
	TabServices
	TabRatingQuestions
	TabDocuments
	TabClaimCentre
	TabServiceProvider
	TabClaimController
)

var tabNames = [...]string{
	TabDetails:         "details",
	TabServices:        "services",
	TabRatingQuestions: "ratingQuestions",
	TabDocuments:       "documents",
	TabClaimCentre:     "claimCentre",
	TabServiceProvider: "serviceProvider",
	TabClaimController: "claimController",
}

func (t Tab) String() string {
	if t < 0 || int(t) >= len(tabNames) {
		return fmt.Sprintf("Tab(%d)", int(t))
	}
	return tabNames[t]
}

// ParseTab accepts a tab name, case-insensitively.
func ParseTab(s string) (Tab, error) {
	for i, n := range tabNames {
		if strings.EqualFold(n, strings.TrimSpace(s)) {
			return Tab(i), nil
		}
	}
	return TabDetails, fmt.Errorf("%w: %q", ErrUnknownTab, s)
}

// MarshalText encodes the tab by name.
func (t Tab) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText decodes a tab name.
func (t *Tab) UnmarshalText(b []byte) error {
	v, err := ParseTab(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
