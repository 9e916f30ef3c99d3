package handler

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"medtracker/internal/delivery/http/middleware"
	"medtracker/internal/domain/entity"
	mockusecase "medtracker/internal/mocks/usecase"
	"medtracker/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProfileHandler_GetProfile_Success(t *testing.T) {
	uc := mockusecase.NewMockProfileUsecase(t)
	h := NewProfileHandler(uc, discardLogger())

	userID := uuid.New()
	uc.On("GetProfile", mock.Anything, userID).Return(&entity.Profile{
		UserID: userID,
		Name:   "Asha Rao",
		Role:   entity.RolePatient,
		Sex:    entity.SexFemale,
	}, nil)

	c, rec := newJSONContext(newTestEcho(), http.MethodGet, "/profile", "")
	c.Set(middleware.ContextKeyUserID, userID)

	require.NoError(t, h.GetProfile(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Asha Rao")
}

func TestProfileHandler_GetProfile_MissingIdentity(t *testing.T) {
	uc := mockusecase.NewMockProfileUsecase(t)
	h := NewProfileHandler(uc, discardLogger())

	c, rec := newJSONContext(newTestEcho(), http.MethodGet, "/profile", "")

	require.NoError(t, h.GetProfile(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	uc.AssertNotCalled(t, "GetProfile", mock.Anything, mock.Anything)
}

func TestProfileHandler_UpdateProfile_PartialFields(t *testing.T) {
	uc := mockusecase.NewMockProfileUsecase(t)
	h := NewProfileHandler(uc, discardLogger())

	userID := uuid.New()
	name := "New Name"
	age := 40
	avatarURL := "https://cdn.example.com/avatars/x.png"
	uc.On("UpdateProfile", mock.Anything, userID, &usecase.UpdateProfileInput{
		Name:      &name,
		Age:       &age,
		AvatarURL: &avatarURL,
	}).Return(&entity.Profile{UserID: userID, Name: name, Age: age, AvatarURL: avatarURL}, nil)

	c, rec := newJSONContext(newTestEcho(), http.MethodPut, "/profile",
		`{"name":"New Name","age":40,"avatar_url":"https://cdn.example.com/avatars/x.png"}`)
	c.Set(middleware.ContextKeyUserID, userID)

	require.NoError(t, h.UpdateProfile(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "New Name")
}

func TestProfileHandler_UploadAvatar_Multipart(t *testing.T) {
	uc := mockusecase.NewMockProfileUsecase(t)
	h := NewProfileHandler(uc, discardLogger())

	userID := uuid.New()
	uc.On("UploadAvatar", mock.Anything, userID, mock.MatchedBy(func(input *usecase.UploadAvatarInput) bool {
		content, err := io.ReadAll(input.Content)

		return err == nil &&
			input.FileName == "me.png" &&
			input.ContentType == "image/png" &&
			string(content) == "png-bytes"
	})).Return(&entity.Profile{UserID: userID, AvatarURL: "https://cdn.example.com/avatars/x.png"}, nil)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="avatar"; filename="me.png"`)
	header.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodPost, "/profile/avatar", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.ContextKeyUserID, userID)

	require.NoError(t, h.UploadAvatar(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cdn.example.com")
}

func TestProfileHandler_UploadAvatar_MissingFile(t *testing.T) {
	uc := mockusecase.NewMockProfileUsecase(t)
	h := NewProfileHandler(uc, discardLogger())

	c, rec := newJSONContext(newTestEcho(), http.MethodPost, "/profile/avatar", "{}")
	c.Set(middleware.ContextKeyUserID, uuid.New())

	require.NoError(t, h.UploadAvatar(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	uc.AssertNotCalled(t, "UploadAvatar", mock.Anything, mock.Anything, mock.Anything)
}

func TestProfileHandler_RemoveAvatar(t *testing.T) {
	uc := mockusecase.NewMockProfileUsecase(t)
	h := NewProfileHandler(uc, discardLogger())

	userID := uuid.New()
	uc.On("RemoveAvatar", mock.Anything, userID).Return(&entity.Profile{UserID: userID}, nil)

	c, rec := newJSONContext(newTestEcho(), http.MethodDelete, "/profile/avatar", "")
	c.Set(middleware.ContextKeyUserID, userID)

	require.NoError(t, h.RemoveAvatar(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}
