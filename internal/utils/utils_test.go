// internal/utils/utils_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecureFilename(t *testing.T) {
	tests := map[string]string{
		"My cool movie.mov":          "My_cool_movie.mov",
		"../../../etc/passwd":        "etc_passwd",
		"i contain cool ümläuts.txt": "i_contain_cool_umlauts.txt",
		"photo (1).JPG":              "photo_1.JPG",
		"...":                        "",
		"C:\\images\\tomato.png":     "C_images_tomato.png",
	}

	for in, want := range tests {
		assert.Equal(t, want, SecureFilename(in), in)
	}
}

func TestAllowedImage(t *testing.T) {
	for _, name := range []string{"a.png", "a.JPG", "b.jpeg", "c.Gif"} {
		assert.True(t, AllowedImage(name), name)
	}
	for _, name := range []string{"a.pdf", "png", "a.png.exe", ""} {
		assert.False(t, AllowedImage(name), name)
	}
}

func TestGenerateRandomSecret(t *testing.T) {
	a, err := GenerateRandomSecret(16)
	require.NoError(t, err)
	b, err := GenerateRandomSecret(16)
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestGetValidationErrorsUsesJSONNames(t *testing.T) {
	type payload struct {
		Email string  `json:"email" validate:"required,email"`
		Price float64 `form:"price" validate:"gte=0"`
	}

	errs := GetValidationErrors(ValidateStruct(&payload{Email: "nope", Price: -1}))
	require.Len(t, errs, 2)
	assert.Equal(t, "email", errs[0].Field)
	assert.Equal(t, "email", errs[0].Tag)
	assert.Equal(t, "price", errs[1].Field)
	assert.Equal(t, "gte", errs[1].Tag)
}
