package csvio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBasic(t *testing.T) {
	rows, err := Decode("a,b,c\n1,2,3\n4,5,6\n")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, Row{"a": "1", "b": "2", "c": "3"}, rows[0])
	assert.Equal(t, Row{"a": "4", "b": "5", "c": "6"}, rows[1])
}

func TestDecodeQuotedComma(t *testing.T) {
	rows, err := Decode("id,address\n1,\"100 Main St, Philadelphia\"\n")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "100 Main St, Philadelphia", rows[0]["address"])
}

func TestDecodeDoubledQuote(t *testing.T) {
	rows, err := Decode("id,notes\n1,\"tag reads \"\"wash me\"\"\"\n")
	require.NoError(t, err)
	assert.Equal(t, `tag reads "wash me"`, rows[0]["notes"])
}

func TestDecodeShortRowPadded(t *testing.T) {
	rows, err := Decode("a,b,c\n1,2\n")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2", rows[0]["b"])
	assert.Equal(t, "", rows[0]["c"])
}

func TestDecodeTrimsCells(t *testing.T) {
	rows, err := Decode("a,b\n  1 ,\t2 \n")
	require.NoError(t, err)
	assert.Equal(t, Row{"a": "1", "b": "2"}, rows[0])
}

func TestDecodeSkipsBlankLines(t *testing.T) {
	rows, err := Decode("a,b\n1,2\n\n   \n3,4\n")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestDecodeEmptyInput(t *testing.T) {
	_, err := Decode("")
	assert.ErrorIs(t, err, ErrNoHeader)

	_, err = Decode("  \n \n")
	assert.ErrorIs(t, err, ErrNoHeader)
}

func TestDecodeHeaderOnly(t *testing.T) {
	rows, err := Decode("a,b,c\n")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestHeader(t *testing.T) {
	header, err := Header("zip , district\n19104,West\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"zip", "district"}, header)
}

// TestRoundTrip encodes rows including a quoted comma field and decodes them
// back, expecting field-for-field equality.
func TestRoundTrip(t *testing.T) {
	header := []string{"id", "address", "status"}
	rows := []Row{
		{"id": "1", "address": "100 Main St, Philadelphia", "status": "Open"},
		{"id": "2", "address": "5th and Market", "status": "Closed"},
	}

	text, err := Encode(header, rows)
	require.NoError(t, err)

	decoded, err := Decode(text)
	require.NoError(t, err)
	assert.Equal(t, rows, decoded)
}
