package shopify

import (
	"github.com/maisonvault/backfill/internal/domain"
)

// Response shapes for the product query. Metafield objects are null
// when unset, so everything nested is a pointer.

type graphqlResponse struct {
	Data struct {
		Product *productNode `json:"product"`
	} `json:"data"`
	Errors []graphqlError `json:"errors"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type productNode struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Vendor          string `json:"vendor"`
	Handle          string `json:"handle"`
	DescriptionHTML string `json:"descriptionHtml"`

	BagStyle    *valueNode `json:"bag_style"`
	BagSize     *valueNode `json:"bag_size"`
	Condition   *valueNode `json:"condition"`
	Receipt     *valueNode `json:"receipt"`
	Accessories *valueNode `json:"accessories"`
	Stamp       *valueNode `json:"stamp"`
	Hardware    *valueNode `json:"hardware"`
	Dimensions  *valueNode `json:"dimensions"`

	HermesColour   *referenceListNode `json:"hermes_colour"`
	HermesMaterial *referenceListNode `json:"hermes_material"`

	HermesHardware       *referenceNode `json:"hermes_hardware"`
	SizeStyleDescription *referenceNode `json:"size_style_description"`
	HermesConstruction   *referenceNode `json:"hermes_construction"`
}

type valueNode struct {
	Value string `json:"value"`
}

type referenceListNode struct {
	References *struct {
		Nodes []metaobjectNode `json:"nodes"`
	} `json:"references"`
}

type referenceNode struct {
	Reference *metaobjectNode `json:"reference"`
}

type metaobjectNode struct {
	Fields []fieldNode `json:"fields"`
}

type fieldNode struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// mapToProductRecord converts the GraphQL response shape into the
// domain record the pipeline consumes.
func mapToProductRecord(p *productNode) *domain.ProductRecord {
	return &domain.ProductRecord{
		ID:              p.ID,
		Title:           p.Title,
		Vendor:          p.Vendor,
		Handle:          p.Handle,
		DescriptionHTML: p.DescriptionHTML,

		BagStyle:    mapMetafield(p.BagStyle),
		BagSize:     mapMetafield(p.BagSize),
		Condition:   mapMetafield(p.Condition),
		Receipt:     mapMetafield(p.Receipt),
		Accessories: mapMetafield(p.Accessories),
		Stamp:       mapMetafield(p.Stamp),
		Hardware:    mapMetafield(p.Hardware),
		Dimensions:  mapMetafield(p.Dimensions),

		HermesColour:   mapReferenceList(p.HermesColour),
		HermesMaterial: mapReferenceList(p.HermesMaterial),

		HermesHardware:       mapReference(p.HermesHardware),
		SizeStyleDescription: mapReference(p.SizeStyleDescription),
		HermesConstruction:   mapReference(p.HermesConstruction),
	}
}

func mapMetafield(v *valueNode) *domain.Metafield {
	if v == nil {
		return nil
	}
	return &domain.Metafield{Value: v.Value}
}

func mapReferenceList(r *referenceListNode) []domain.Metaobject {
	if r == nil || r.References == nil {
		return nil
	}
	out := make([]domain.Metaobject, 0, len(r.References.Nodes))
	for _, node := range r.References.Nodes {
		out = append(out, mapMetaobject(node))
	}
	return out
}

func mapReference(r *referenceNode) *domain.Metaobject {
	if r == nil || r.Reference == nil {
		return nil
	}
	m := mapMetaobject(*r.Reference)
	return &m
}

func mapMetaobject(node metaobjectNode) domain.Metaobject {
	fields := make([]domain.MetaobjectField, 0, len(node.Fields))
	for _, f := range node.Fields {
		fields = append(fields, domain.MetaobjectField{Key: f.Key, Value: f.Value})
	}
	return domain.Metaobject{Fields: fields}
}
