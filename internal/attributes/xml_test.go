package attributes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/trgovina/internal/db"
	"github.com/erazemk/trgovina/internal/htmltext"
	"github.com/erazemk/trgovina/internal/model"
	"github.com/erazemk/trgovina/internal/store"
)

type definitionMap map[int64]*model.Attribute

func (m definitionMap) Attribute(_ context.Context, id int64) (*model.Attribute, error) {
	return m[id], nil
}

const addressPayload = `<Attributes>
  <AddressAttribute ID="2">
    <AddressAttributeValue><Value> 5 </Value></AddressAttributeValue>
    <AddressAttributeValue><Value>6</Value></AddressAttributeValue>
  </AddressAttribute>
  <CustomerAttribute ID="9"><CustomerAttributeValue><Value>x</Value></CustomerAttributeValue></CustomerAttribute>
  <AddressAttribute ID="1">
    <AddressAttributeValue><Value>Door code 42</Value></AddressAttributeValue>
  </AddressAttribute>
  <AddressAttribute ID="404"><AddressAttributeValue><Value>?</Value></AddressAttributeValue></AddressAttribute>
</Attributes>`

func TestXMLParserReadsPayloadOrder(t *testing.T) {
	p := &XMLParser{
		Kind: model.AttributeKindAddress,
		Definitions: definitionMap{
			1: {ID: 1, Name: "Note"},
			2: {ID: 2, Name: "Extras"},
			9: {ID: 9, Name: "Customer only"},
		},
	}

	attrs, err := p.ParseAttributes(context.Background(), addressPayload)
	require.NoError(t, err)
	require.Len(t, attrs, 2)
	assert.Equal(t, int64(2), attrs[0].ID)
	assert.Equal(t, int64(1), attrs[1].ID)

	assert.Equal(t, []string{"5", "6"}, p.ParseValues(addressPayload, 2))
	assert.Equal(t, []string{"Door code 42"}, p.ParseValues(addressPayload, 1))
	assert.Nil(t, p.ParseValues(addressPayload, 9))
}

func TestXMLParserMalformedPayload(t *testing.T) {
	p := &XMLParser{Kind: model.AttributeKindCustomer, Definitions: definitionMap{}}

	for _, payload := range []string{"", "   ", "<Attributes><CustomerAttribute", "not xml"} {
		attrs, err := p.ParseAttributes(context.Background(), payload)
		require.NoError(t, err)
		assert.Empty(t, attrs)
		assert.Empty(t, p.ParseValues(payload, 1))
	}
}

func TestAddAttribute(t *testing.T) {
	payload, err := AddAttribute(model.AttributeKindCustomer, "", 3, "a")
	require.NoError(t, err)
	payload, err = AddAttribute(model.AttributeKindCustomer, payload, 4, "b")
	require.NoError(t, err)
	payload, err = AddAttribute(model.AttributeKindCustomer, payload, 3, "c")
	require.NoError(t, err)

	assert.Equal(t,
		`<Attributes><CustomerAttribute ID="3"><CustomerAttributeValue><Value>a</Value></CustomerAttributeValue>`+
			`<CustomerAttributeValue><Value>c</Value></CustomerAttributeValue></CustomerAttribute>`+
			`<CustomerAttribute ID="4"><CustomerAttributeValue><Value>b</Value></CustomerAttributeValue></CustomerAttribute></Attributes>`,
		payload)

	p := &XMLParser{Kind: model.AttributeKindCustomer}
	assert.Equal(t, []string{"a", "c"}, p.ParseValues(payload, 3))

	_, err = AddAttribute(model.AttributeKindCustomer, "<broken", 1, "x")
	assert.Error(t, err)
}

func TestStoreFormatter(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	kind := model.AttributeKindAddress

	color, err := store.CreateAttribute(ctx, database, &model.Attribute{Kind: kind, Name: "Color", ControlType: model.ControlCheckboxes})
	require.NoError(t, err)
	note, err := store.CreateAttribute(ctx, database, &model.Attribute{Kind: kind, Name: "Note", ControlType: model.ControlMultilineTextbox})
	require.NoError(t, err)
	red, err := store.CreateAttributeValue(ctx, database, &model.AttributeValue{Kind: kind, AttributeID: color.ID, Name: "Red"})
	require.NoError(t, err)
	blue, err := store.CreateAttributeValue(ctx, database, &model.AttributeValue{Kind: kind, AttributeID: color.ID, Name: "Blue"})
	require.NoError(t, err)
	require.NoError(t, store.SetLocalized(ctx, database, red.LocaleKey(model.FieldName), 2, "Rdeča"))

	payload := ""
	for _, step := range []struct {
		id    int64
		value string
	}{
		{color.ID, "1"},
		{note.ID, "Leave at <door>\nThanks"},
		{color.ID, "2"},
	} {
		payload, err = AddAttribute(kind, payload, step.id, step.value)
		require.NoError(t, err)
	}
	require.Equal(t, int64(1), red.ID)
	require.Equal(t, int64(2), blue.ID)

	f := NewStoreFormatter(database, kind, htmltext.New(false), ContextLanguage(0))

	got, err := f.Format(ctx, payload, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "Color: Red<br />Color: Blue<br />Note: Leave at &lt;door&gt;<br />Thanks", got)

	got, err = f.Format(WithLanguage(ctx, 2), payload, Options{Separator: "; ", HTMLEncode: false})
	require.NoError(t, err)
	assert.Equal(t, "Color: Rdeča; Color: Blue; Note: Leave at &lt;door&gt;<br />Thanks", got)
}
