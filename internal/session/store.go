// Package session holds the in-memory aggregation store for one client edit
// session. Independent tabs patch scalar slices and replace or edit
// collections; Snapshot merges everything into one submission-ready Client.
package session

import (
	"sync"
	"sync/atomic"

	"github.com/kylejryan/claims-admin/internal/models"
)

// state is never modified after it is published.
type state struct {
	tab    Tab
	loaded map[Tab]bool

	clientData   Fields
	companyInfo  Fields
	customLabels Fields
	claimInfo    Fields

	services         []models.ClientService
	ratingQuestions  []models.ClientRatingQuestion
	documents        []models.ClientDocument
	claimCentres     []models.ClientClaimCentre
	serviceProviders []models.ClientServiceProvider
	claimControllers []models.ClientClaimController
}

func emptyState() *state {
	return &state{
		tab:              TabDetails,
		loaded:           map[Tab]bool{TabDetails: true},
		clientData:       Fields{},
		companyInfo:      Fields{},
		customLabels:     Fields{},
		claimInfo:        Fields{},
		services:         []models.ClientService{},
		ratingQuestions:  []models.ClientRatingQuestion{},
		documents:        []models.ClientDocument{},
		claimCentres:     []models.ClientClaimCentre{},
		serviceProviders: []models.ClientServiceProvider{},
		claimControllers: []models.ClientClaimController{},
	}
}

// Change is delivered to subscribers after every mutation.
type Change struct {
	Op   string
	View View
}

// Store aggregates one edit session. Reads are lock-free and always observe a
// complete state; writes are serialized.
type Store struct {
	mu  sync.Mutex
	cur atomic.Pointer[state]

	subMu   sync.Mutex
	subs    map[int]func(Change)
	nextSub int
}

// NewStore returns a store in its reset state.
func NewStore() *Store {
	s := &Store{subs: map[int]func(Change){}}
	s.cur.Store(emptyState())
	return s
}

// Subscribe registers fn for change notifications and returns a cancel func.
// fn runs synchronously on the mutating goroutine and must not mutate the store.
func (s *Store) Subscribe(fn func(Change)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// update applies fn to a shallow copy of the current state and publishes it.
func (s *Store) update(op string, fn func(next *state)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := *s.cur.Load()
	fn(&next)
	s.cur.Store(&next)

	s.subMu.Lock()
	subs := make([]func(Change), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.subMu.Unlock()
	if len(subs) == 0 {
		return
	}
	ch := Change{Op: op, View: next.view()}
	for _, sub := range subs {
		sub(ch)
	}
}

// Reset clears every slice and collection and returns to the details tab.
func (s *Store) Reset() {
	s.update("reset", func(next *state) { *next = *emptyState() })
}

// SelectTab records the tab currently shown.
func (s *Store) SelectTab(t Tab) {
	s.update("select_tab", func(next *state) {
		loaded := make(map[Tab]bool, len(next.loaded)+1)
		for k, v := range next.loaded {
			loaded[k] = v
		}
		loaded[t] = true
		next.tab = t
		next.loaded = loaded
	})
}

// PatchSlice shallow-merges patch into the named slice.
func (s *Store) PatchSlice(name SliceName, patch Fields) error {
	if _, err := ParseSliceName(string(name)); err != nil {
		return err
	}
	patch = patch.withoutCollections()
	s.update("patch_"+string(name), func(next *state) {
		switch name {
		case SliceClientData:
			next.clientData = next.clientData.merged(patch)
		case SliceCompanyInfo:
			next.companyInfo = next.companyInfo.merged(patch)
		case SliceCustomLabels:
			next.customLabels = next.customLabels.merged(patch)
		case SliceClaimInfo:
			next.claimInfo = next.claimInfo.merged(patch)
		}
	})
	return nil
}

// PatchCompanyInfo merges into the company information slice.
func (s *Store) PatchCompanyInfo(f Fields) { _ = s.PatchSlice(SliceCompanyInfo, f) }

// PatchClaimInfo merges into the claim information slice.
func (s *Store) PatchClaimInfo(f Fields) { _ = s.PatchSlice(SliceClaimInfo, f) }

// PatchClientData merges into the generic client slice.
func (s *Store) PatchClientData(f Fields) { _ = s.PatchSlice(SliceClientData, f) }

// PatchCustomLabels merges into the custom labels slice.
func (s *Store) PatchCustomLabels(f Fields) { _ = s.PatchSlice(SliceCustomLabels, f) }

// SetServices replaces the services collection.
func (s *Store) SetServices(v []models.ClientService) {
	s.update("set_services", func(next *state) { next.services = sanitizeAll(v) })
}

// SetRatingQuestions replaces the rating questions collection.
func (s *Store) SetRatingQuestions(v []models.ClientRatingQuestion) {
	s.update("set_rating_questions", func(next *state) { next.ratingQuestions = sanitizeAll(v) })
}

// SetDocuments replaces the documents collection, deduplicating by identity key.
func (s *Store) SetDocuments(v []models.ClientDocument) {
	s.update("set_documents", func(next *state) { next.documents = dedupe(sanitizeAll(v)) })
}

// SetClaimCentres replaces the claim centres collection.
func (s *Store) SetClaimCentres(v []models.ClientClaimCentre) {
	s.update("set_claim_centres", func(next *state) { next.claimCentres = copyOf(v) })
}

// SetServiceProviders replaces the service providers collection.
func (s *Store) SetServiceProviders(v []models.ClientServiceProvider) {
	s.update("set_service_providers", func(next *state) { next.serviceProviders = sanitizeAll(v) })
}

// SetClaimControllers replaces the claim controllers collection.
func (s *Store) SetClaimControllers(v []models.ClientClaimController) {
	s.update("set_claim_controllers", func(next *state) { next.claimControllers = copyOf(v) })
}

// AddDocument links doc. An active document with the same key makes this a
// no-op; a soft-deleted one is restored with doc's data.
func (s *Store) AddDocument(doc models.ClientDocument) {
	s.update("add_document", func(next *state) { next.documents = addItem(next.documents, doc) })
}

// UpsertDocument replaces the document with doc's key, or failing that a
// soft-deleted document of the same DocumentId, or appends doc.
func (s *Store) UpsertDocument(doc models.ClientDocument) {
	s.update("upsert_document", func(next *state) {
		cur := next.documents
		doc = doc.WithDeleted(false)
		key := doc.IdentityKey()
		for i, d := range cur {
			if d.IdentityKey() == key {
				out := copyOf(cur)
				out[i] = doc
				next.documents = sanitizeAll(out)
				return
			}
		}
		for i, d := range cur {
			if d.DocumentId == doc.DocumentId && d.IsDeleted {
				out := copyOf(cur)
				out[i] = doc
				next.documents = sanitizeAll(out)
				return
			}
		}
		next.documents = sanitizeAll(dedupe(append(copyOf(cur), doc)))
	})
}

// SoftDeleteDocuments flags matching documents as deleted, keeping them in place.
func (s *Store) SoftDeleteDocuments(match func(models.ClientDocument) bool) {
	s.update("soft_delete_documents", func(next *state) {
		next.documents = setDeleted(next.documents, match, true)
	})
}

// RestoreDocuments clears the delete flag on matching documents.
func (s *Store) RestoreDocuments(match func(models.ClientDocument) bool) {
	s.update("restore_documents", func(next *state) {
		next.documents = setDeleted(next.documents, match, false)
	})
}

// SoftDelete flags matching entries of the named collection as deleted.
func (s *Store) SoftDelete(name CollectionName, match Predicate) error {
	return s.flag(name, match, true)
}

// Restore clears the delete flag on matching entries of the named collection.
func (s *Store) Restore(name CollectionName, match Predicate) error {
	return s.flag(name, match, false)
}

func (s *Store) flag(name CollectionName, match Predicate, deleted bool) error {
	if _, err := ParseCollectionName(string(name)); err != nil {
		return err
	}
	if match == nil {
		match = func(models.Item) bool { return false }
	}
	op := "restore_" + string(name)
	if deleted {
		op = "soft_delete_" + string(name)
	}
	s.update(op, func(next *state) {
		switch name {
		case CollectionServices:
			next.services = setDeleted(next.services, func(v models.ClientService) bool { return match(v) }, deleted)
		case CollectionRatingQuestions:
			next.ratingQuestions = setDeleted(next.ratingQuestions, func(v models.ClientRatingQuestion) bool { return match(v) }, deleted)
		case CollectionDocuments:
			next.documents = setDeleted(next.documents, func(v models.ClientDocument) bool { return match(v) }, deleted)
		case CollectionClaimCentres:
			next.claimCentres = setDeleted(next.claimCentres, func(v models.ClientClaimCentre) bool { return match(v) }, deleted)
		case CollectionServiceProviders:
			next.serviceProviders = setDeleted(next.serviceProviders, func(v models.ClientServiceProvider) bool { return match(v) }, deleted)
		case CollectionClaimControllers:
			next.claimControllers = setDeleted(next.claimControllers, func(v models.ClientClaimController) bool { return match(v) }, deleted)
		}
	})
	return nil
}

// SetFromServer replaces every slice and collection with a saved client.
// Scalar fields go back to the slice whose tab owns them so later tab edits
// are not shadowed by a stale copy in a higher-precedence slice.
func (s *Store) SetFromServer(c models.Client) {
	all := FieldsOf(c)
	company, rest := all.pick(companyInfoKeys)
	claim, rest := rest.pick(claimInfoKeys)
	labels, rest := rest.pick(customLabelKeys)
	s.update("set_from_server", func(next *state) {
		next.clientData = rest
		next.companyInfo = company
		next.claimInfo = claim
		next.customLabels = labels
		next.services = sanitizeAll(c.ClientService)
		next.ratingQuestions = sanitizeAll(c.ClientRatingQuestion)
		next.documents = dedupe(sanitizeAll(c.ClientDocument))
		next.claimCentres = copyOf(c.ClientClaimCentre)
		next.serviceProviders = sanitizeAll(c.ClientServiceProvider)
		next.claimControllers = copyOf(c.ClientClaimController)
	})
}

// Slice returns a copy of the named slice's current value.
func (s *Store) Slice(name SliceName) (Fields, error) {
	if _, err := ParseSliceName(string(name)); err != nil {
		return nil, err
	}
	st := s.cur.Load()
	switch name {
	case SliceClientData:
		return st.clientData.clone(), nil
	case SliceCompanyInfo:
		return st.companyInfo.clone(), nil
	case SliceCustomLabels:
		return st.customLabels.clone(), nil
	default:
		return st.claimInfo.clone(), nil
	}
}

// Documents returns the live documents collection, soft-deleted rows included.
func (s *Store) Documents() []models.ClientDocument {
	return copyOf(s.cur.Load().documents)
}

// PendingDeletions lists persisted rows that were soft-deleted in this session.
func (s *Store) PendingDeletions() models.Deletions {
	st := s.cur.Load()
	return models.Deletions{
		Services:         pendingIDs(st.services),
		RatingQuestions:  pendingIDs(st.ratingQuestions),
		Documents:        pendingIDs(st.documents),
		ClaimCentres:     pendingIDs(st.claimCentres),
		ServiceProviders: pendingIDs(st.serviceProviders),
		ClaimControllers: pendingIDs(st.claimControllers),
	}
}
