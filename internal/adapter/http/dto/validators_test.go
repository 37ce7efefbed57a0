package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhoneRegexp(t *testing.T) {
	valid := []string{"09121234567", "02112345678", "00000000000"}
	invalid := []string{"", "0912123456", "091212345678", "0912123456a", "+9121234567"}

	for _, n := range valid {
		assert.True(t, phoneRe.MatchString(n), "expected %q to be valid", n)
	}
	for _, n := range invalid {
		assert.False(t, phoneRe.MatchString(n), "expected %q to be invalid", n)
	}
}

func TestSanitizeStruct(t *testing.T) {
	comment := "  <b>urgent</b>  "
	req := DepositStatusRequest{
		Status:  "  approved ",
		Comment: &comment,
	}
	SanitizeStruct(&req)

	assert.Equal(t, "approved", req.Status)
	assert.Equal(t, "&lt;b&gt;urgent&lt;/b&gt;", *req.Comment)
}

func TestSanitizeStruct_NonPointerIsNoop(t *testing.T) {
	req := LoginRequest{Username: " alice "}
	SanitizeStruct(req) // value, not pointer
	assert.Equal(t, " alice ", req.Username)
}
