package domain

// Metafield is a scalar custom attribute on a product. Values arrive as
// strings regardless of the metafield's declared type; list-typed
// metafields carry a JSON-encoded array in Value.
type Metafield struct {
	Value string `json:"value"`
}

// MetaobjectField is a single key/value pair on a referenced metaobject.
type MetaobjectField struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Metaobject is a structured sub-record referenced by a product
// metafield. Fields keep the order the catalog API returned them in;
// downstream joins are order-sensitive.
type Metaobject struct {
	Fields []MetaobjectField `json:"fields"`
}

// ProductRecord is one product as fetched from the catalog admin API:
// identity, the existing description markup, scalar metafields, and the
// referenced metaobjects for colour/material/hardware/style/construction.
// Scalar metafield pointers are nil when the metafield is unset.
type ProductRecord struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Vendor          string `json:"vendor"`
	Handle          string `json:"handle"`
	DescriptionHTML string `json:"descriptionHtml"`

	BagStyle    *Metafield `json:"bag_style"`
	BagSize     *Metafield `json:"bag_size"`
	Condition   *Metafield `json:"condition"`
	Receipt     *Metafield `json:"receipt"`
	Accessories *Metafield `json:"accessories"`
	Stamp       *Metafield `json:"stamp"`
	Hardware    *Metafield `json:"hardware"`
	Dimensions  *Metafield `json:"dimensions"`

	HermesColour   []Metaobject `json:"hermes_colour"`
	HermesMaterial []Metaobject `json:"hermes_material"`

	HermesHardware       *Metaobject `json:"hermes_hardware"`
	SizeStyleDescription *Metaobject `json:"size_style_description"`
	HermesConstruction   *Metaobject `json:"hermes_construction"`
}

// MetafieldValue returns the metafield's value, or "" when the
// metafield is unset.
func MetafieldValue(m *Metafield) string {
	if m == nil {
		return ""
	}
	return m.Value
}

// FieldValue returns the value of the named field on a metaobject, or
// "" when the metaobject is nil or the field is absent.
func (m *Metaobject) FieldValue(key string) string {
	if m == nil {
		return ""
	}
	for _, f := range m.Fields {
		if f.Key == key {
			return f.Value
		}
	}
	return ""
}
