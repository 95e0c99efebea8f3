package model

// AttributeKind selects the entity an attribute extends.
type AttributeKind string

// Attribute kinds.
const (
	AttributeKindAddress  AttributeKind = "address"
	AttributeKindCustomer AttributeKind = "customer"
)

// Valid reports whether k is a known attribute kind.
func (k AttributeKind) Valid() bool {
	return k == AttributeKindAddress || k == AttributeKindCustomer
}

// ControlType is the input modality of an attribute.
type ControlType string

// Control types.
const (
	ControlDropdown           ControlType = "dropdown"
	ControlRadioList          ControlType = "radio"
	ControlCheckboxes         ControlType = "checkboxes"
	ControlReadonlyCheckboxes ControlType = "readonly_checkboxes"
	ControlTextbox            ControlType = "textbox"
	ControlMultilineTextbox   ControlType = "multiline_textbox"
	ControlDatepicker         ControlType = "datepicker"
	ControlFileUpload         ControlType = "file_upload"
	ControlColorSquares       ControlType = "color_squares"
	ControlImageSquares       ControlType = "image_squares"
)

// HasPredefinedValues reports whether values of this control type are ids of
// predefined attribute values rather than free-form input.
func (c ControlType) HasPredefinedValues() bool {
	switch c {
	case ControlTextbox, ControlMultilineTextbox, ControlDatepicker, ControlFileUpload:
		return false
	}
	return true
}

// Attribute is an address or customer attribute definition.
type Attribute struct {
	ID           int64         `json:"id"`
	Kind         AttributeKind `json:"kind"`
	Name         string        `json:"name"`
	ControlType  ControlType   `json:"control_type"`
	Required     bool          `json:"required"`
	DisplayOrder int           `json:"display_order"`
}

// HasPredefinedValues reports whether the attribute uses predefined values.
func (a *Attribute) HasPredefinedValues() bool {
	return a.ControlType.HasPredefinedValues()
}

// LocaleKey returns the localization key of one of the attribute's fields.
func (a *Attribute) LocaleKey(field LocalizedField) LocaleKey {
	return LocaleKey{Group: attributeGroups[a.Kind], EntityID: a.ID, Field: field}
}

// AttributeValue is a predefined value of an attribute.
type AttributeValue struct {
	ID            int64         `json:"id"`
	Kind          AttributeKind `json:"kind"`
	AttributeID   int64         `json:"attribute_id"`
	Name          string        `json:"name"`
	IsPreSelected bool          `json:"is_pre_selected"`
	DisplayOrder  int           `json:"display_order"`
}

// LocaleKey returns the localization key of one of the value's fields.
func (v *AttributeValue) LocaleKey(field LocalizedField) LocaleKey {
	return LocaleKey{Group: attributeValueGroups[v.Kind], EntityID: v.ID, Field: field}
}

var attributeGroups = map[AttributeKind]string{
	AttributeKindAddress:  "AddressAttribute",
	AttributeKindCustomer: "CustomerAttribute",
}

var attributeValueGroups = map[AttributeKind]string{
	AttributeKindAddress:  "AddressAttributeValue",
	AttributeKindCustomer: "CustomerAttributeValue",
}
