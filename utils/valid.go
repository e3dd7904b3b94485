// utils/valid.go
package utils

import (
	"errors"
	"html"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

var (
	scriptRegex   = regexp.MustCompile(`<script[^>]*>.*?</script>`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	nonPhoneRegex = regexp.MustCompile(`[^\d+]`)
	folderRegex   = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,39}$`)
)

// SanitizeInput sanitizes user input to prevent XSS and injection attacks
func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)
	input = scriptRegex.ReplaceAllString(input, "")
	input = html.EscapeString(input)

	// Remove control characters
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input)
}

// SanitizeEmail sanitizes and validates an email address
func SanitizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegex.MatchString(email) {
		return "", errors.New("invalid email format")
	}
	return email, nil
}

// SanitizePhone sanitizes and validates a phone number
func SanitizePhone(phone string) (string, error) {
	// phone is optional
	if strings.TrimSpace(phone) == "" {
		return "", nil
	}

	phone = nonPhoneRegex.ReplaceAllString(phone, "")
	if !strings.HasPrefix(phone, "+") {
		phone = "+" + phone
	}

	if len(phone) < 8 || len(phone) > 16 {
		return "", errors.New("invalid phone number length")
	}
	return phone, nil
}

// SanitizeStringArray sanitizes an array of strings
func SanitizeStringArray(inputs []string) []string {
	sanitized := make([]string, len(inputs))
	for i, input := range inputs {
		sanitized[i] = SanitizeInput(input)
	}
	return sanitized
}

var uploadContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".pdf":  "application/pdf",
	".epub": "application/epub+zip",
	".mp4":  "video/mp4",
}

// ValidateUpload checks the folder and file name of a direct upload and
// returns the lower-cased extension.
func ValidateUpload(folder, fileName, contentType string) (string, error) {
	if !folderRegex.MatchString(folder) {
		return "", errors.New("invalid folder")
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	expected, ok := uploadContentTypes[ext]
	if !ok {
		return "", errors.New("invalid file type")
	}
	if contentType != expected {
		return "", errors.New("content type does not match file extension")
	}
	return ext, nil
}
