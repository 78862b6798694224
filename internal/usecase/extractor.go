package usecase

import (
	"strconv"
	"strings"

	"github.com/maisonvault/backfill/internal/domain"
)

// Metaobject field keys recognized during reference-collection walks.
// A category key with a truthy value contributes that value to the
// joined category string; description keys feed the puzzle block.
var (
	colourCategoryKeys = map[string]bool{
		"blue":          true,
		"pink_purple":   true,
		"red":           true,
		"orange_yellow": true,
		"green":         true,
		"black_grey":    true,
		"brown":         true,
		"natural_white": true,
	}

	materialCategoryKeys = map[string]bool{
		"calfskin":     true,
		"goatskin":     true,
		"buffalo":      true,
		"exotic_skins": true,
		"canvas":       true,
		"other":        true,
	}
)

// BuildSpecification assembles the structured specification sent to the
// generation service from a fully-fetched product record and the editor
// note preserved by the classifier (empty when none). Pure and
// idempotent; performs no I/O.
func BuildSpecification(p *domain.ProductRecord, editorNote string) *domain.StructuredSpecification {
	specs := make(map[string]any)

	if v, ok := FirstOfListish(domain.MetafieldValue(p.BagStyle)); ok {
		specs["bag_style"] = v
	}

	if raw := domain.MetafieldValue(p.BagSize); !isBlank(raw) {
		// Coercion failure drops the field silently; spreadsheet-sourced
		// sizes are not reliably numeric.
		if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			specs["bag_size_cm"] = int(f)
		}
	}

	if v, ok := FirstOfListish(domain.MetafieldValue(p.Condition)); ok {
		specs["condition"] = v
	}

	// These four keys are always present, nil when the metafield is
	// unset. The generation service distinguishes "unknown" from
	// "absent" for them.
	specs["stamp"] = metafieldAny(p.Stamp)
	specs["receipt"] = metafieldAny(p.Receipt)
	specs["accessories"] = metafieldAny(p.Accessories)
	specs["hardware"] = metafieldAny(p.Hardware)

	if dims := NormalizeDimensions(domain.MetafieldValue(p.Dimensions)); dims != nil {
		specs["dimensions"] = dims
	}

	var colourDescriptions []string
	var materialDescriptions []string

	if len(p.HermesColour) > 0 {
		var categories, codes []string
		for _, node := range p.HermesColour {
			for _, field := range node.Fields {
				if field.Value == "" {
					continue
				}
				switch {
				case colourCategoryKeys[field.Key]:
					categories = append(categories, field.Value)
				case field.Key == "colour_code":
					codes = append(codes, field.Value)
				case field.Key == "colour_description":
					colourDescriptions = append(colourDescriptions, field.Value)
				}
			}
		}
		if len(categories) > 0 {
			specs["hermes_colour"] = joinUnique(categories)
		}
		if len(codes) > 0 {
			specs["hermes_colour_code"] = joinUnique(codes)
		}
	}

	if len(p.HermesMaterial) > 0 {
		var categories []string
		for _, node := range p.HermesMaterial {
			for _, field := range node.Fields {
				if field.Value == "" {
					continue
				}
				switch {
				case materialCategoryKeys[field.Key]:
					categories = append(categories, field.Value)
				case field.Key == "material_description":
					materialDescriptions = append(materialDescriptions, field.Value)
				}
			}
		}
		if len(categories) > 0 {
			specs["hermes_material"] = joinUnique(categories)
		}
	}

	hardwareDescription := p.HermesHardware.FieldValue("hardware_description")

	puzzle := make(map[string]any)

	// The source metaobject key carries a typo; it is the live schema.
	if v := p.SizeStyleDescription.FieldValue("style_size_descritpion"); v != "" {
		puzzle["style_size_description"] = v
	}

	if v := p.HermesConstruction.FieldValue("construction_description"); v != "" {
		puzzle["construction_description"] = v
	}

	if len(materialDescriptions) > 0 {
		puzzle["material_descriptions"] = materialDescriptions
	}
	if len(colourDescriptions) > 0 {
		puzzle["colour_descriptions"] = colourDescriptions
	}
	if hardwareDescription != "" {
		puzzle["hardware_description"] = hardwareDescription
	}

	return &domain.StructuredSpecification{
		Specifications:    specs,
		PuzzleDescription: puzzle,
		EditorNote:        editorNote,
	}
}

// IdentityOf copies the untransformed identity block from a record.
func IdentityOf(p *domain.ProductRecord) domain.ProductIdentity {
	return domain.ProductIdentity{
		ID:     p.ID,
		Title:  p.Title,
		Vendor: p.Vendor,
		Handle: p.Handle,
	}
}

// metafieldAny returns the metafield value, or nil when unset.
func metafieldAny(m *domain.Metafield) any {
	if m == nil {
		return nil
	}
	return m.Value
}

// joinUnique joins values with " | ", dropping duplicates while keeping
// first-seen order.
func joinUnique(values []string) string {
	seen := make(map[string]bool, len(values))
	unique := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			unique = append(unique, v)
		}
	}
	return strings.Join(unique, " | ")
}
