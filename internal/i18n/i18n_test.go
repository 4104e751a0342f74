// internal/i18n/i18n_test.go
package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedCatalogCoversKeys(t *testing.T) {
	require.NoError(t, Initialize("en"))

	keys := []string{
		KeyAuthRequired, KeyAuthForbidden, KeyAuthInvalidCredentials, KeyAuthInvalidGoogleToken,
		KeyAuthEmailRegistered, KeyAuthRegisterSuccess, KeyAuthLoginSuccess, KeyAuthGoogleLoginSuccess,
		KeyAuthLogoutSuccess, KeyUserNotFound, KeyProductAdded, KeyProductUpdated, KeyProductDeleted,
		KeyProductNotFound, KeyProductInvalidPrice, KeyRequestCreated, KeyRequestUpdated, KeyRequestNotFound,
		KeyRequestInvalidStatus, KeyRequestTransitionBlocked, KeyMessageSent, KeyValidationMissingData,
		KeyValidationInvalid, KeyFileMissingPart, KeyFileNoSelection, KeyFileInvalidType, KeyFileInvalidName,
		KeyFileUploadFailed, KeyFileNotFound, KeyInternalError, KeyUserProfileUpdated, KeyFileTooLarge,
	}
	for _, key := range keys {
		assert.NotEqual(t, key, T("en", key), key)
	}
	assert.True(t, Supported("en"))
	assert.True(t, Supported("zh_TW"))
	assert.False(t, Supported("fr"))
}

func TestLocalesShareKeys(t *testing.T) {
	require.NoError(t, Initialize("en"))

	instance.mu.RLock()
	defer instance.mu.RUnlock()

	en := instance.translations["en"]
	for lang, catalog := range instance.translations {
		assert.Len(t, catalog, len(en), lang)
		for key := range en {
			assert.Contains(t, catalog, key, lang)
		}
	}
}

func TestTranslatesWithArguments(t *testing.T) {
	require.NoError(t, Initialize("en"))

	assert.Equal(t, "Request 4 updated.", T("en", KeyRequestUpdated, 4))
	assert.Equal(t, "請求 4 已更新。", T("zh_TW", KeyRequestUpdated, 4))
	assert.Equal(t, "Please log in.", T("xx", KeyAuthRequired))
}

func TestTFallsBackToDefaultLanguage(t *testing.T) {
	i := &I18n{translations: map[string]map[string]string{}, defaultLang: "en"}
	fsys := fstest.MapFS{
		"l/en.json": {Data: []byte(`{"greet": "Hello %s", "only_en": "English"}`)},
		"l/si.json": {Data: []byte(`{"greet": "Ayubowan %s"}`)},
	}
	require.NoError(t, i.LoadTranslations(fsys, "l"))

	assert.Equal(t, "Ayubowan Nimal", i.T("si", "greet", "Nimal"))
	assert.Equal(t, "English", i.T("si", "only_en"))
	assert.Equal(t, "missing.key", i.T("si", "missing.key"))
}
