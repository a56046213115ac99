package handler

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudha-chandrann/CozyHuntBackend/internal/model"
)

func fh(name string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name, Size: size}
}

func TestValidateDocumentFiles(t *testing.T) {
	// happy path: mixed formats within limits
	types, err := validateDocumentFiles([]*multipart.FileHeader{
		fh("aadhaar_front.jpg", 1024),
		fh("pan_card.pdf", 2048),
		fh("selfie.png", 512),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"image/jpeg", "application/pdf", "image/png"}, types)

	_, err = validateDocumentFiles(nil)
	assert.ErrorIs(t, err, errBadUpload)

	_, err = validateDocumentFiles([]*multipart.FileHeader{
		fh("a.jpg", 1), fh("b.jpg", 1), fh("c.jpg", 1),
		fh("d.jpg", 1), fh("e.jpg", 1), fh("f.jpg", 1),
	})
	assert.ErrorIs(t, err, errBadUpload)

	_, err = validateDocumentFiles([]*multipart.FileHeader{fh("huge.pdf", maxDocumentBytes+1)})
	assert.ErrorIs(t, err, errBadUpload)

	_, err = validateDocumentFiles([]*multipart.FileHeader{fh("malware.exe", 100)})
	assert.ErrorIs(t, err, errBadUpload)
}

func TestInferIdentityDocType(t *testing.T) {
	cases := map[string]string{
		"aadhaar_front.jpg":     model.DocAadhaar,
		"my-AADHAR-scan.png":    model.DocAadhaar,
		"pan_card.pdf":          model.DocPAN,
		"driving_license.jpg":   model.DocDrivingLicense,
		"Driving-Licence.pdf":   model.DocDrivingLicense,
		"passport_page1.png":    model.DocPassport,
		"voter_id.jpg":          model.DocVoterID,
		"random_document.pdf":   model.DocGovernmentID,
		"IMG_20250901_1200.jpg": model.DocGovernmentID,
	}
	for name, want := range cases {
		assert.Equal(t, want, inferIdentityDocType(name), name)
	}
}
