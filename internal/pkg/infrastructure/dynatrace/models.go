package dynatrace

import "encoding/json"

type ProblemFilter struct {
	From          string
	To            string
	Status        string
	ProblemSelect string
}

type Problem struct {
	ProblemID        string           `json:"problemId"`
	DisplayID        string           `json:"displayId"`
	Title            string           `json:"title"`
	ImpactLevel      string           `json:"impactLevel,omitempty"`
	SeverityLevel    string           `json:"severityLevel"`
	Status           string           `json:"status"`
	AffectedEntities []AffectedEntity `json:"affectedEntities,omitempty"`
	ImpactedEntities []AffectedEntity `json:"impactedEntities,omitempty"`
	AffectedEntity   *NamedEntity     `json:"affectedEntity,omitempty"`
	EntityTags       json.RawMessage  `json:"entityTags,omitempty"`
	ManagementZones  json.RawMessage  `json:"managementZones,omitempty"`

	// epoch milliseconds, endTime is negative while the problem is open
	StartTime int64 `json:"startTime"`
	EndTime   int64 `json:"endTime"`
}

type AffectedEntity struct {
	EntityID EntityStub `json:"entityId"`
	Name     string     `json:"name"`
}

type EntityStub struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type NamedEntity struct {
	Name       string `json:"name"`
	EntityType string `json:"entityType"`
}

type EntityType struct {
	Type        string `json:"type"`
	DisplayName string `json:"displayName,omitempty"`
}

// Entity is a monitored entity with its properties normalized for storage.
type Entity struct {
	EntityID        string          `json:"entityId"`
	DisplayName     string          `json:"displayName"`
	Type            string          `json:"type"`
	HealthStatus    string          `json:"healthStatus"`
	Icon            json.RawMessage `json:"icon,omitempty"`
	ManagementZones json.RawMessage `json:"managementZones,omitempty"`
	Tags            json.RawMessage `json:"tags"`
	Properties      map[string]any  `json:"properties"`
}

type ConnectionResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type Comment struct {
	Message string `json:"message"`
	Context string `json:"context,omitempty"`
}

type problemsResponse struct {
	Problems    []Problem `json:"problems"`
	NextPageKey string    `json:"nextPageKey"`
	TotalCount  int       `json:"totalCount"`
}

type entityTypesResponse struct {
	Types       []EntityType `json:"types"`
	NextPageKey string       `json:"nextPageKey"`
}

type entitiesResponse struct {
	Entities    []rawEntity `json:"entities"`
	NextPageKey string      `json:"nextPageKey"`
}

type rawEntity struct {
	EntityID        string          `json:"entityId"`
	DisplayName     string          `json:"displayName"`
	Type            string          `json:"type"`
	HealthStatus    string          `json:"healthStatus"`
	Icon            json.RawMessage `json:"icon"`
	ManagementZones json.RawMessage `json:"managementZones"`
	Tags            json.RawMessage `json:"tags"`
	Properties      map[string]any  `json:"properties"`
}
