package attributes

import (
	"context"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/erazemk/trgovina/internal/model"
)

// DefinitionLookup resolves attribute definitions. A missing definition is
// reported as nil without an error.
type DefinitionLookup interface {
	Attribute(ctx context.Context, id int64) (*model.Attribute, error)
}

// XMLParser reads payloads of the form
//
//	<Attributes>
//	  <AddressAttribute ID="1">
//	    <AddressAttributeValue><Value>v</Value></AddressAttributeValue>
//	  </AddressAttribute>
//	</Attributes>
//
// Customer payloads use CustomerAttribute and CustomerAttributeValue.
type XMLParser struct {
	Kind        model.AttributeKind
	Definitions DefinitionLookup
}

type payloadXML struct {
	XMLName    xml.Name       `xml:"Attributes"`
	Attributes []attributeXML `xml:",any"`
}

type attributeXML struct {
	XMLName xml.Name
	ID      string     `xml:"ID,attr"`
	Values  []valueXML `xml:",any"`
}

type valueXML struct {
	XMLName xml.Name
	Value   string `xml:"Value"`
}

func elementNames(kind model.AttributeKind) (string, string) {
	if kind == model.AttributeKindCustomer {
		return "CustomerAttribute", "CustomerAttributeValue"
	}
	return "AddressAttribute", "AddressAttributeValue"
}

// decode parses payload. Empty or malformed payloads decode to an empty
// document.
func decode(payload string) payloadXML {
	var doc payloadXML
	if strings.TrimSpace(payload) == "" {
		return doc
	}
	if err := xml.Unmarshal([]byte(payload), &doc); err != nil {
		return payloadXML{}
	}
	return doc
}

// attributeIDs returns the distinct attribute ids of the payload in order.
func (p *XMLParser) attributeIDs(payload string) []int64 {
	attrName, _ := elementNames(p.Kind)

	var ids []int64
	seen := make(map[int64]bool)
	for _, a := range decode(payload).Attributes {
		if a.XMLName.Local != attrName {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSpace(a.ID), 10, 64)
		if err != nil || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// ParseAttributes returns the known attribute definitions referenced by
// payload. Unknown ids are skipped.
func (p *XMLParser) ParseAttributes(ctx context.Context, payload string) ([]model.Attribute, error) {
	var attrs []model.Attribute
	for _, id := range p.attributeIDs(payload) {
		a, err := p.Definitions.Attribute(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("getting attribute %d: %w", id, err)
		}
		if a != nil {
			attrs = append(attrs, *a)
		}
	}
	return attrs, nil
}

// ParseValues returns the trimmed values stored for an attribute.
func (p *XMLParser) ParseValues(payload string, attributeID int64) []string {
	attrName, valueName := elementNames(p.Kind)

	var values []string
	for _, a := range decode(payload).Attributes {
		if a.XMLName.Local != attrName {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSpace(a.ID), 10, 64)
		if err != nil || id != attributeID {
			continue
		}
		for _, v := range a.Values {
			if v.XMLName.Local == valueName {
				values = append(values, strings.TrimSpace(v.Value))
			}
		}
	}
	return values
}

// AddAttribute returns payload with value appended to the attribute, adding
// the attribute element when it is not present yet.
func AddAttribute(kind model.AttributeKind, payload string, attributeID int64, value string) (string, error) {
	attrName, valueName := elementNames(kind)

	var doc payloadXML
	if strings.TrimSpace(payload) != "" {
		if err := xml.Unmarshal([]byte(payload), &doc); err != nil {
			return "", fmt.Errorf("parsing attribute payload: %w", err)
		}
	}
	doc.XMLName = xml.Name{Local: "Attributes"}

	v := valueXML{XMLName: xml.Name{Local: valueName}, Value: value}
	idStr := strconv.FormatInt(attributeID, 10)
	found := false
	for i := range doc.Attributes {
		a := &doc.Attributes[i]
		if a.XMLName.Local == attrName && strings.TrimSpace(a.ID) == idStr {
			a.Values = append(a.Values, v)
			found = true
			break
		}
	}
	if !found {
		doc.Attributes = append(doc.Attributes, attributeXML{
			XMLName: xml.Name{Local: attrName},
			ID:      idStr,
			Values:  []valueXML{v},
		})
	}

	out, err := xml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encoding attribute payload: %w", err)
	}
	return string(out), nil
}
