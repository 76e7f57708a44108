package pdu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeHeaderBody_ToAddressSingleLine(t *testing.T) {
	b := NewEnvBody()
	require.NoError(t, b.ParseLine("To: Gandalf"))
	require.NoError(t, b.Finalize())

	require.Len(t, b.ToAddress, 1)
	assert.Equal(t, "Gandalf", b.ToAddress[0].Name)
}

func TestEnvelopeHeaderBody_FromSubjectAndDate(t *testing.T) {
	b := NewEnvBody()
	require.NoError(t, b.ParseLine("From: Frodo %2F 001-1111"))
	require.NoError(t, b.ParseLine("To: Gandalf %2F 002-2222"))
	require.NoError(t, b.ParseLine("Subject: The Ring"))
	require.NoError(t, b.ParseLine("Date: Sun Aug 11, 2024 12:00 AM PST"))
	require.NoError(t, b.Finalize())

	require.NotNil(t, b.FromAddress)
	assert.Equal(t, "Frodo", b.FromAddress.Name)
	assert.Equal(t, "001-1111", b.FromAddress.ID)
	require.Len(t, b.ToAddress, 1)
	assert.Equal(t, "002-2222", b.ToAddress[0].ID)
	require.NotNil(t, b.Subject)
	assert.Equal(t, "The Ring", *b.Subject)
	require.NotNil(t, b.Date)
	assert.Equal(t, "Sun Aug 11, 2024 08:00 AM GMT", b.Date.StringGMT())
}

func TestEnvelopeHeaderBody_AddressContinuation(t *testing.T) {
	b := NewEnvBody()
	require.NoError(t, b.ParseLine("To: Gandalf"))
	require.NoError(t, b.ParseLine(" EMS: INTERNET"))
	require.NoError(t, b.ParseLine(" MBX: gandalf@shire.example"))
	require.NoError(t, b.ParseLine("Cc: Bilbo"))
	require.NoError(t, b.Finalize())

	require.Len(t, b.ToAddress, 1)
	assert.Equal(t, "INTERNET", b.ToAddress[0].EMS)
	assert.Equal(t, []string{"gandalf@shire.example"}, b.ToAddress[0].MBX)
	require.Len(t, b.CCAddress, 1)
	assert.Equal(t, "Bilbo", b.CCAddress[0].Name)
}

func TestEnvelopeHeaderBody_MultipleFromIsEnvelopeProblem(t *testing.T) {
	b := NewEnvBody()
	require.NoError(t, b.ParseLine("From: Frodo"))
	err := b.ParseLine("From: Sam")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "310")
}

func TestEnvelopeHeaderBody_NoToIsEnvelopeNoTo(t *testing.T) {
	b := NewEnvBody()
	require.NoError(t, b.ParseLine("From: Frodo"))
	err := b.Finalize()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "312")
}

func TestEnvelopeHeaderBody_NoDataAtAllIsEnvelopeNoData(t *testing.T) {
	b := NewEnvBody()
	err := b.Finalize()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "311")
}

func TestEnvelopeHeaderBody_VerifyRejectsNonAddressFields(t *testing.T) {
	b := NewVerifyBody()
	require.NoError(t, b.ParseLine("To: Gandalf"))
	err := b.ParseLine("Subject: not allowed in VERIFY")
	require.Error(t, err)
}

func TestEnvelopeHeaderBody_SourceMessageIDQueueEvicts(t *testing.T) {
	b := NewEnvBody()
	require.NoError(t, b.ParseLine("To: Gandalf"))
	for i := 0; i < 6; i++ {
		require.NoError(t, b.ParseLine("Source-Message-ID: id" + string(rune('0'+i))))
	}
	require.Len(t, b.SourceMessageID, maxSourceMessageIDs)
	assert.Equal(t, "id1", b.SourceMessageID[0])
	assert.Equal(t, "id5", b.SourceMessageID[maxSourceMessageIDs-1])
}

func TestEnvelopeHeaderBody_UFieldQueueEvicts(t *testing.T) {
	b := NewEnvBody()
	require.NoError(t, b.ParseLine("To: Gandalf"))
	for i := 0; i < 6; i++ {
		require.NoError(t, b.ParseLine("U-Field"+string(rune('0'+i))+": value"))
	}
	require.Len(t, b.UFields, maxUFields)
	assert.Equal(t, "U-Field1", b.UFields[0].Name)
}

func TestEnvelopeHeaderBody_ParseOptionsPriority(t *testing.T) {
	b := NewEnvBody()
	require.NoError(t, b.ParseOptions(""))
	assert.Equal(t, PriorityNone, b.Priority)

	b2 := NewEnvBody()
	require.NoError(t, b2.ParseOptions("ONITE"))
	assert.Equal(t, PriorityOnite, b2.Priority)

	b3 := NewEnvBody()
	err := b3.ParseOptions("BOGUS")
	require.Error(t, err)
}

func TestEnvelopeHeaderBody_LineWithoutColon(t *testing.T) {
	b := NewEnvBody()
	err := b.ParseLine("garbage line with no colon")
	require.Error(t, err)
}

func TestEnvelopeHeaderBody_FuzzModeSkipsFinalizeChecks(t *testing.T) {
	b := NewEnvBody()
	b.SetFuzzMode(true)
	require.NoError(t, b.Finalize())
}

func TestEnvelopeHeaderBody_AddressContinuationWithoutAddress(t *testing.T) {
	b := NewEnvBody()
	err := b.ParseLine(" EMS: INTERNET")
	require.Error(t, err)
}
