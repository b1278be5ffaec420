package session

import (
	"encoding/json"
	"sort"

	"github.com/kylejryan/claims-admin/internal/models"
)

// View is the live summary of a session, soft-deleted rows included.
type View struct {
	SelectedTab      Tab                            `json:"selectedTab"`
	LoadedTabs       []Tab                          `json:"loadedTabs"`
	Details          Fields                         `json:"details"`
	Services         []models.ClientService         `json:"services"`
	RatingQuestions  []models.ClientRatingQuestion  `json:"ratingQs"`
	Documents        []models.ClientDocument        `json:"documents"`
	ClaimCentres     []models.ClientClaimCentre     `json:"claimCentre"`
	ServiceProviders []models.ClientServiceProvider `json:"serviceProv"`
	ClaimControllers []models.ClientClaimController `json:"claimController"`
}

// View returns the current live summary.
func (s *Store) View() View { return s.cur.Load().view() }

// Snapshot builds the submission-ready client from the current state.
func (s *Store) Snapshot() models.Client { return s.cur.Load().snapshot() }

func (st *state) details() Fields {
	return st.clientData.
		merged(st.companyInfo).
		merged(st.customLabels).
		merged(st.claimInfo)
}

func (st *state) view() View {
	loaded := make([]Tab, 0, len(st.loaded))
	for t, ok := range st.loaded {
		if ok {
			loaded = append(loaded, t)
		}
	}
	sort.Slice(loaded, func(i, j int) bool { return loaded[i] < loaded[j] })
	return View{
		SelectedTab:      st.tab,
		LoadedTabs:       loaded,
		Details:          st.details(),
		Services:         copyOf(st.services),
		RatingQuestions:  copyOf(st.ratingQuestions),
		Documents:        copyOf(st.documents),
		ClaimCentres:     copyOf(st.claimCentres),
		ServiceProviders: copyOf(st.serviceProviders),
		ClaimControllers: copyOf(st.claimControllers),
	}
}

func (st *state) snapshot() models.Client {
	c := decodeClient(withDefaults(st.details()))

	c.ClientService = submittable(st.services)
	c.ClientRatingQuestion = submittable(st.ratingQuestions)
	c.ClientClaimCentre = submittable(st.claimCentres)
	c.ClientServiceProvider = submittable(st.serviceProviders)
	c.ClientClaimController = submittable(st.claimControllers)

	// Strip after dedupe: TempKey is what keeps unsaved rows of one type apart.
	docs := submittable(st.documents)
	for i := range docs {
		docs[i].TempKey = ""
	}
	c.ClientDocument = docs
	return c
}

func submittable[T row[T]](in []T) []T {
	return sanitizeAll(dedupe(activeOnly(in)))
}

// defaults fill keys that are missing or null in the merged details.
var defaults = Fields{
	"ClientId":      0,
	"ClientName":    "",
	"PrintName":     "",
	"ClientGroupId": 0,
	"ClientGroup":   map[string]any{"ClientGroupId": 0, "Name": "", "IsActive": true},
	"Tel":           "",
	"Mobile":        "",
	"IsActive":      true,
}

func withDefaults(f Fields) Fields {
	out := f.clone()
	for k, v := range defaults {
		if cur, ok := out[k]; !ok || cur == nil {
			out[k] = v
		}
	}
	return out
}

// decodeClient maps fields onto a Client. Fields are type-checked on entry, so
// the per-key fallback only guards against values that slipped past that.
func decodeClient(f Fields) models.Client {
	var c models.Client
	b, err := json.Marshal(f)
	if err == nil && json.Unmarshal(b, &c) == nil {
		return c
	}
	c = models.Client{}
	for k, v := range f {
		one, err := json.Marshal(map[string]any{k: v})
		if err != nil {
			continue
		}
		var tmp models.Client
		if json.Unmarshal(one, &tmp) == nil {
			_ = json.Unmarshal(one, &c)
		}
	}
	return c
}
