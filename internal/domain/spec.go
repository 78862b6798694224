package domain

// ClassificationOutcome is the result of evaluating a product's
// existing description: whether a new description should be generated,
// the preserved editor note (verbatim markup) when a short curated note
// was detected, and a human-readable reason including the metrics that
// drove the decision.
type ClassificationOutcome struct {
	ShouldProcess bool   `json:"shouldProcess"`
	EditorNote    string `json:"editorNote,omitempty"`
	Reason        string `json:"reason"`
}

// Dimension is one normalized measurement: a value that is an int,
// float64 or raw string depending on how cleanly it parsed, and a
// lower-cased unit label.
type Dimension struct {
	Value any    `json:"value"`
	Unit  string `json:"unit"`
}

// StructuredSpecification is the normalized, typed summary of a
// product's attributes handed to the generation service. Specifications
// holds scalar attributes (stamp/receipt/accessories/hardware are
// always present as keys, possibly nil; every other key is present only
// when its source value survived normalization). PuzzleDescription
// holds the free-text fragments the generator assembles prose from.
type StructuredSpecification struct {
	Specifications    map[string]any `json:"specifications"`
	PuzzleDescription map[string]any `json:"puzzle_description"`
	EditorNote        string         `json:"editor_note,omitempty"`
}

// ProductIdentity is the untransformed identity block forwarded to the
// generation service alongside the specification.
type ProductIdentity struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Vendor string `json:"vendor"`
	Handle string `json:"handle"`
}

// GenerationPayload is the request body sent to the generation service.
type GenerationPayload struct {
	Product    ProductIdentity         `json:"product"`
	Structured StructuredSpecification `json:"structured"`
}

// BackfillResult is the per-product outcome of a backfill run. Status
// carries the classifier reason (or "GENERATED"); DescriptionHTML is
// populated only when a replacement description was generated.
type BackfillResult struct {
	ProductID       string `json:"productId"`
	Title           string `json:"title"`
	Status          string `json:"status"`
	Generated       bool   `json:"generated"`
	DescriptionHTML string `json:"descriptionHtml,omitempty"`
}
