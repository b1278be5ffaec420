package session

import "github.com/kylejryan/claims-admin/internal/models"

// Draft is the serializable form of a store's state, used for checkpoints.
type Draft struct {
	SelectedTab      Tab                            `json:"selectedTab"`
	LoadedTabs       []Tab                          `json:"loadedTabs"`
	ClientData       Fields                         `json:"clientData"`
	CompanyInfo      Fields                         `json:"companyInfo"`
	CustomLabels     Fields                         `json:"customLabels"`
	ClaimInfo        Fields                         `json:"claimInfo"`
	Services         []models.ClientService         `json:"services"`
	RatingQuestions  []models.ClientRatingQuestion  `json:"ratingQuestions"`
	Documents        []models.ClientDocument        `json:"documents"`
	ClaimCentres     []models.ClientClaimCentre     `json:"claimCentres"`
	ServiceProviders []models.ClientServiceProvider `json:"serviceProviders"`
	ClaimControllers []models.ClientClaimController `json:"claimControllers"`
}

// Export captures the current state.
func (s *Store) Export() Draft {
	st := s.cur.Load()
	v := st.view()
	return Draft{
		SelectedTab:      st.tab,
		LoadedTabs:       v.LoadedTabs,
		ClientData:       st.clientData.clone(),
		CompanyInfo:      st.companyInfo.clone(),
		CustomLabels:     st.customLabels.clone(),
		ClaimInfo:        st.claimInfo.clone(),
		Services:         v.Services,
		RatingQuestions:  v.RatingQuestions,
		Documents:        v.Documents,
		ClaimCentres:     v.ClaimCentres,
		ServiceProviders: v.ServiceProviders,
		ClaimControllers: v.ClaimControllers,
	}
}

// Import replaces the current state with d.
func (s *Store) Import(d Draft) {
	s.update("import", func(next *state) {
		fresh := emptyState()
		fresh.tab = d.SelectedTab
		for _, t := range d.LoadedTabs {
			fresh.loaded[t] = true
		}
		fresh.loaded[d.SelectedTab] = true
		fresh.clientData = fresh.clientData.merged(d.ClientData)
		fresh.companyInfo = fresh.companyInfo.merged(d.CompanyInfo)
		fresh.customLabels = fresh.customLabels.merged(d.CustomLabels)
		fresh.claimInfo = fresh.claimInfo.merged(d.ClaimInfo)
		fresh.services = append(fresh.services, d.Services...)
		fresh.ratingQuestions = append(fresh.ratingQuestions, d.RatingQuestions...)
		fresh.documents = append(fresh.documents, d.Documents...)
		fresh.claimCentres = append(fresh.claimCentres, d.ClaimCentres...)
		fresh.serviceProviders = append(fresh.serviceProviders, d.ServiceProviders...)
		fresh.claimControllers = append(fresh.claimControllers, d.ClaimControllers...)
		*next = *fresh
	})
}
