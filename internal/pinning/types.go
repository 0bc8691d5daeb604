package pinning

// PinResult locates pinned content
type PinResult struct {
	CID        string `json:"cid"`
	IPFSURL    string `json:"ipfsUrl"`
	GatewayURL string `json:"gatewayUrl"`
}

// Attribute is an ERC-1155 metadata trait
type Attribute struct {
	TraitType string      `json:"trait_type"`
	Value     interface{} `json:"value"`
}

// NFTMetadataInput describes a token metadata document
type NFTMetadataInput struct {
	Name        string
	Description string
	ImageCID    string
	ExternalURL string
	Attributes  []Attribute
	License     map[string]interface{}
	Provenance  map[string]interface{}
}

// NFTMetadata is the pinned token metadata document
type NFTMetadata struct {
	Name         string                 `json:"name"`
	Description  string                 `json:"description"`
	Image        string                 `json:"image"`
	ExternalURL  string                 `json:"external_url"`
	Attributes   []Attribute            `json:"attributes"`
	License      map[string]interface{} `json:"license"`
	Provenance   map[string]interface{} `json:"provenance"`
	RightsNotice string                 `json:"rights_notice"`
}

// LicenseInput describes the terms of a license. Empty fields take the defaults
// reproduction-limited, personal, worldwide and perpetual; attribution defaults to required.
type LicenseInput struct {
	Type             string                 `json:"type"`
	Scope            string                 `json:"scope"`
	Territory        string                 `json:"territory"`
	Term             string                 `json:"term"`
	Attribution      *bool                  `json:"attribution"`
	CommercialUse    bool                   `json:"commercialUse"`
	Modifications    bool                   `json:"modifications"`
	ResaleConditions map[string]interface{} `json:"resaleConditions"`
	Editions         *int                   `json:"editions"`
	PDFURL           string                 `json:"pdfUrl"`
}

// LicenseDocument is the machine-readable license that gets pinned
type LicenseDocument struct {
	Type             string                 `json:"type"`
	Scope            string                 `json:"scope"`
	Territory        string                 `json:"territory"`
	Term             string                 `json:"term"`
	Attribution      bool                   `json:"attribution"`
	CommercialUse    bool                   `json:"commercial_use"`
	Modifications    bool                   `json:"modifications"`
	ResaleConditions map[string]interface{} `json:"resale_conditions"`
}

// LicenseResult points at both renditions of a license
type LicenseResult struct {
	Type               string  `json:"type"`
	Editions           *int    `json:"editions,omitempty"`
	HumanReadableURL   *string `json:"human_readable_url"`
	MachineReadableURL string  `json:"machine_readable_url"`
	CID                string  `json:"cid"`
}

// Usage is the pinned data total of the account
type Usage struct {
	PinCount                     int64 `json:"pin_count"`
	PinSizeTotal                 int64 `json:"pin_size_total"`
	PinSizeWithReplicationsTotal int64 `json:"pin_size_with_replications_total"`
}
