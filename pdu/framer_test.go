package pdu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFramer_SimpleSingleLineChecksumBypass(t *testing.T) {
	f := &Framer{}
	require.NoError(t, f.ParseLine("/create*ZZZZ\r\n"))
	require.True(t, f.IsComplete())

	v, err := f.ExtractPDU()
	require.NoError(t, err)
	assert.Equal(t, TypeCreate, v.Type)
	assert.IsType(t, CreateBody{}, v.Body)
}

func TestFramer_ChecksumMismatchIsChecksumError(t *testing.T) {
	f := &Framer{}
	err := f.ParseLine("/create*1234\r")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestFramer_MultiLineVerify(t *testing.T) {
	f := &Framer{}
	require.NoError(t, f.ParseLine("/verify\r\n"))
	require.False(t, f.IsComplete())
	require.NoError(t, f.ParseLine("To: Gandalf\r\n"))
	require.NoError(t, f.ParseLine("/end verify*0B01\r\n"))
	require.True(t, f.IsComplete())

	v, err := f.ExtractPDU()
	require.NoError(t, err)
	assert.Equal(t, TypeVerify, v.Type)

	body, ok := v.Body.(*EnvelopeHeaderBody)
	require.True(t, ok)
	require.Len(t, body.ToAddress, 1)
	assert.Equal(t, "Gandalf", body.ToAddress[0].Name)
}

func TestFramer_EnvWithFields(t *testing.T) {
	f := &Framer{}
	require.NoError(t, f.ParseLine("/env\r\n"))
	require.NoError(t, f.ParseLine("To: Gandalf\r\n"))
	require.NoError(t, f.ParseLine("From: Frodo\r\n"))
	require.NoError(t, f.ParseLine("Subject: Hi\r\n"))
	require.NoError(t, f.ParseLine("/end env*ZZZZ\r\n"))
	require.True(t, f.IsComplete())

	v, err := f.ExtractPDU()
	require.NoError(t, err)
	assert.Equal(t, TypeEnv, v.Type)

	body, ok := v.Body.(*EnvelopeHeaderBody)
	require.True(t, ok)
	require.NotNil(t, body.FromAddress)
	assert.Equal(t, "Frodo", body.FromAddress.Name)
	require.NotNil(t, body.Subject)
	assert.Equal(t, "Hi", *body.Subject)
}

func TestFramer_MCIIDCanonicalizationThroughAddressLine(t *testing.T) {
	f := &Framer{}
	require.NoError(t, f.ParseLine("/verify\r\n"))
	require.NoError(t, f.ParseLine("To: Gandalf%2F0001111111\r\n"))
	require.NoError(t, f.ParseLine("/end verify*ZZZZ\r\n"))
	require.True(t, f.IsComplete())

	v, err := f.ExtractPDU()
	require.NoError(t, err)
	body := v.Body.(*EnvelopeHeaderBody)
	require.Len(t, body.ToAddress, 1)
	assert.Equal(t, "Gandalf", body.ToAddress[0].Name)
	assert.Equal(t, "111-1111", body.ToAddress[0].ID)
}

func TestFramer_EndTypeMismatchIsSyntaxError(t *testing.T) {
	f := &Framer{}
	require.NoError(t, f.ParseLine("/verify\r\n"))
	require.NoError(t, f.ParseLine("To: Gandalf\r\n"))
	err := f.ParseLine("/end env*ZZZZ\r\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "301")
}

func TestFramer_StickyErrorSurfacesAtEnd(t *testing.T) {
	f := &Framer{}
	require.NoError(t, f.ParseLine("/comment\r\n"))
	require.NoError(t, f.ParseLine("bad%ZZstray\r\n"))
	err := f.ParseLine("/end comment*ZZZZ\r\n")
	require.Error(t, err)
}

func TestFramer_NoDataAfterCompleteIsError(t *testing.T) {
	f := &Framer{}
	require.NoError(t, f.ParseLine("/create*ZZZZ\r\n"))
	err := f.ParseLine("/send*ZZZZ\r\n")
	require.Error(t, err)
}

func TestFramer_FuzzModeSkipsEnvelopeFinalizeChecks(t *testing.T) {
	f := &Framer{FuzzMode: true}
	require.NoError(t, f.ParseLine("/env\r\n"))
	require.NoError(t, f.ParseLine("/end env*ZZZZ\r\n"))
	require.True(t, f.IsComplete())
}

func TestFramer_FuzzModeAllowsDataAfterComplete(t *testing.T) {
	f := &Framer{FuzzMode: true}
	require.NoError(t, f.ParseLine("/create*ZZZZ\r\n"))
	err := f.ParseLine("/send*ZZZZ\r\n")
	require.NoError(t, err)
}

func TestFramer_UnknownPduTypeIsSyntaxError(t *testing.T) {
	f := &Framer{}
	err := f.ParseLine("/bogus*ZZZZ\r\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "301")
}

func TestFramer_MultiLineWithCheckumOnFirstLineIsError(t *testing.T) {
	f := &Framer{}
	err := f.ParseLine("/verify*ZZZZ\r\n")
	require.Error(t, err)
}

func TestFramer_ExtractBeforeCompleteErrors(t *testing.T) {
	f := &Framer{}
	require.NoError(t, f.ParseLine("/verify\r\n"))
	_, err := f.ExtractPDU()
	require.Error(t, err)
}

func FuzzFramerParseLine(f *testing.F) {
	f.Add("/create*ZZZZ\r\n")
	f.Add("/verify\r\nTo: Gandalf\r\n/end verify*ZZZZ\r\n")
	f.Fuzz(func(t *testing.T, line string) {
		fr := &Framer{FuzzMode: true}
		_ = fr.ParseLine(line)
	})
}
