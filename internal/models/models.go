package models

// Destination identifies one of the fixed set of front-end pages the
// router may send a query to.
type Destination string

const (
	DestContactOfficials Destination = "/contact-officials"
	DestPoliceInfo       Destination = "/police-info"
	DestOfficialsLookup  Destination = "/officials-lookup"
	DestJobs             Destination = "/jobs"
	DestResources        Destination = "/resources"
	DestBusiness         Destination = "/business-opportunities"
	DestOrganizations    Destination = "/civic-organizations"
	DestAbout            Destination = "/about"
)

// Destinations is the closed set of routable pages. The router drops
// anything the oracle returns outside this set.
var Destinations = map[Destination]bool{
	DestContactOfficials: true,
	DestPoliceInfo:       true,
	DestOfficialsLookup:  true,
	DestJobs:             true,
	DestResources:        true,
	DestBusiness:         true,
	DestOrganizations:    true,
	DestAbout:            true,
}

// RouteParams carries the optional typed parameters attached to a routed
// decision. Empty fields are omitted from the response body.
type RouteParams struct {
	SearchTerm       string `json:"searchTerm,omitempty"`
	Category         string `json:"category,omitempty"`
	GovernmentType   string `json:"governmentType,omitempty"`
	DateStart        string `json:"dateStart,omitempty"`
	DateEnd          string `json:"dateEnd,omitempty"`
	Employer         string `json:"employer,omitempty"`
	Location         string `json:"location,omitempty"`
	OrganizationType string `json:"organizationType,omitempty"`
}

// DecisionKind tags the variant of a Decision.
type DecisionKind int

const (
	DecisionCrisis DecisionKind = iota
	DecisionRouted
	DecisionAnswered
	DecisionRejected
)

// RejectCode classifies why a query was rejected; the server maps it to
// an HTTP status.
type RejectCode string

const (
	RejectQuotaExceeded  RejectCode = "quota_exceeded"
	RejectOutOfScope     RejectCode = "out_of_scope"
	RejectUnintelligible RejectCode = "unintelligible"
	RejectUpstream       RejectCode = "upstream_failure"
)

// Decision is the single structured outcome produced for one query.
// Exactly one variant is populated per query.
type Decision struct {
	Kind         DecisionKind
	Answer       string      // DecisionCrisis, DecisionAnswered
	Destination  Destination // DecisionRouted
	Params       RouteParams // DecisionRouted
	RejectCode   RejectCode  // DecisionRejected
	RejectReason string      // DecisionRejected, human readable
}

func CrisisDecision(message string) Decision {
	return Decision{Kind: DecisionCrisis, Answer: message}
}

func RoutedDecision(dest Destination, params RouteParams) Decision {
	return Decision{Kind: DecisionRouted, Destination: dest, Params: params}
}

func AnsweredDecision(answer string) Decision {
	return Decision{Kind: DecisionAnswered, Answer: answer}
}

func RejectedDecision(code RejectCode, reason string) Decision {
	return Decision{Kind: DecisionRejected, RejectCode: code, RejectReason: reason}
}

// UsageCounter is one calendar day's consumption of the classification
// service. Date is the natural key in YYYY-MM-DD form.
type UsageCounter struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}
