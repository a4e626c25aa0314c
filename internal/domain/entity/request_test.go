package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest(t *testing.T) {
	contractor := Actor{ID: "c1", Email: "c1@example.com"}

	request, err := NewRequest("ad1", contractor, "I can start tomorrow")

	require.NoError(t, err)
	assert.Equal(t, RequestStatusPending, request.Status)
	assert.Equal(t, "c1", request.ContractorID)
	assert.Equal(t, "c1@example.com", request.ContractorEmail)
	assert.Equal(t, "ad1", request.AdID)
}

func TestNewRequest_EmptyCommentAllowed(t *testing.T) {
	_, err := NewRequest("ad1", Actor{ID: "c1"}, "")
	assert.NoError(t, err)
}

func TestValidateComment_TooLong(t *testing.T) {
	err := ValidateComment(strings.Repeat("x", MaxCommentLength+1))

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "comment", ve.Fields[0].Field)
}
