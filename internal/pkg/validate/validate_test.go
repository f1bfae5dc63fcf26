package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "Ocean View", SanitizeInput("  Ocean View  "))
	assert.Equal(t, "scriptalert(1)/script", SanitizeInput("<script>alert(1)</script>"))
	assert.Equal(t, "", SanitizeInput("   "))

	long := strings.Repeat("a", 2000)
	assert.Len(t, SanitizeInput(long), 1000)
}

func TestEmail(t *testing.T) {
	assert.True(t, Email("guest@example.com"))
	assert.True(t, Email("a.b+c@sub.domain.io"))
	assert.False(t, Email("guest@example"))
	assert.False(t, Email("not an email"))
	assert.False(t, Email(""))
}

func TestPhone(t *testing.T) {
	assert.True(t, Phone("+886 2 1234 5678"))
	assert.True(t, Phone("0912-345-678"))
	assert.False(t, Phone("12345"), "too short")
	assert.False(t, Phone("phone: 0912345678"), "letters rejected")
}

func TestAmount(t *testing.T) {
	assert.True(t, Amount(MinAmount))
	assert.True(t, Amount(15000))
	assert.True(t, Amount(MaxAmount))
	assert.False(t, Amount(MinAmount-1))
	assert.False(t, Amount(MaxAmount+1))
	assert.False(t, Amount(-500))
}

func TestSecureReference(t *testing.T) {
	ref := SecureReference("LDG")
	assert.True(t, strings.HasPrefix(ref, "LDG"))
	assert.Equal(t, strings.ToUpper(ref), ref)
	assert.Greater(t, len(ref), len("LDG")+6)

	assert.NotEqual(t, SecureReference("LDG"), SecureReference("LDG"))
}
