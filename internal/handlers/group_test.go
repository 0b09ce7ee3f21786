package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"group-service/internal/errs"
	"group-service/internal/mocks"
	"group-service/internal/models"
)

func setupGroupRouter(handler *GroupHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.POST("/groups", handler.CreateGroup)
	r.GET("/groups", handler.ListGroups)
	r.GET("/groups/search", handler.SearchGroups)
	r.GET("/groups/:group_id", handler.GetGroup)
	r.DELETE("/groups/:group_id", handler.DeleteGroup)
	return r
}

func TestCreateGroupSuccess(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	handler := NewGroupHandler(groupRepo, nil)
	router := setupGroupRouter(handler)

	groupRepo.On("CreateGroup", mock.Anything, 1, "gophers", "", models.VisibilityPublic, (*int)(nil)).
		Return(models.Group{ID: 5, Name: "gophers", Visibility: models.VisibilityPublic, OwnerID: 1, Members: []int{1}, Admins: []int{1}}, nil).Once()

	body := bytes.NewBufferString(`{"name":"gophers","visibility":"public"}`)
	req := httptest.NewRequest(http.MethodPost, "/groups", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	groupRepo.AssertExpectations(t)
}

func TestCreateGroupInvalidBody(t *testing.T) {
	handler := NewGroupHandler(new(mocks.GroupRepositoryMock), nil)
	router := setupGroupRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/groups", bytes.NewBufferString(`{"name":5}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateGroupInvalidVisibility(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	handler := NewGroupHandler(groupRepo, nil)
	router := setupGroupRouter(handler)

	groupRepo.On("CreateGroup", mock.Anything, 1, "gophers", "", "secret", (*int)(nil)).
		Return(nil, errs.Invalid("visibility", "must be public or private")).Once()

	body := bytes.NewBufferString(`{"name":"gophers","visibility":"secret"}`)
	req := httptest.NewRequest(http.MethodPost, "/groups", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	groupRepo.AssertExpectations(t)
}

func TestCreateGroupNeverExposesKey(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	handler := NewGroupHandler(groupRepo, nil)
	router := setupGroupRouter(handler)

	groupRepo.On("CreateGroup", mock.Anything, 1, "gophers", "", models.VisibilityPublic, (*int)(nil)).
		Return(models.Group{ID: 5, Name: "gophers", EncryptionKey: "c2VjcmV0"}, nil).Once()

	body := bytes.NewBufferString(`{"name":"gophers","visibility":"public"}`)
	req := httptest.NewRequest(http.MethodPost, "/groups", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotContains(t, rec.Body.String(), "c2VjcmV0")
	require.NotContains(t, rec.Body.String(), "encryption_key")
}

func TestListGroupsSuccess(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	handler := NewGroupHandler(groupRepo, nil)
	router := setupGroupRouter(handler)

	groupRepo.On("ListGroupsForUser", mock.Anything, 1).
		Return([]models.Group{{ID: 5, Name: "gophers"}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/groups", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	groupRepo.AssertExpectations(t)
}

func TestSearchGroupsSuccess(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	handler := NewGroupHandler(groupRepo, nil)
	router := setupGroupRouter(handler)

	groupRepo.On("SearchGroups", mock.Anything, models.VisibilityPublic, "go").
		Return([]models.Group{{ID: 5, Name: "gophers"}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/groups/search?q=go", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	groupRepo.AssertExpectations(t)
}

func TestSearchGroupsBadVisibility(t *testing.T) {
	handler := NewGroupHandler(new(mocks.GroupRepositoryMock), nil)
	router := setupGroupRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/groups/search?visibility=secret", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetGroupMemberSeesMemberList(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	handler := NewGroupHandler(groupRepo, nil)
	router := setupGroupRouter(handler)

	groupRepo.On("GetGroup", mock.Anything, 9).
		Return(models.Group{ID: 9, Name: "gophers", OwnerID: 2, Members: []int{1, 2}, Admins: []int{2}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/groups/9", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Group
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, []int{1, 2}, got.Members)
}

func TestGetGroupNonMemberSeesListingView(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	handler := NewGroupHandler(groupRepo, nil)
	router := setupGroupRouter(handler)

	groupRepo.On("GetGroup", mock.Anything, 9).
		Return(models.Group{ID: 9, Name: "gophers", OwnerID: 2, Members: []int{2, 3}, Admins: []int{2}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/groups/9", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Group
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Empty(t, got.Members)
	require.Empty(t, got.Admins)
}

func TestGetGroupNotFound(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	handler := NewGroupHandler(groupRepo, nil)
	router := setupGroupRouter(handler)

	groupRepo.On("GetGroup", mock.Anything, 9).
		Return(nil, errs.NotFound("group", 9)).Once()

	req := httptest.NewRequest(http.MethodGet, "/groups/9", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetGroupInvalidID(t *testing.T) {
	handler := NewGroupHandler(new(mocks.GroupRepositoryMock), nil)
	router := setupGroupRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/groups/bad", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteGroupSuccess(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	handler := NewGroupHandler(groupRepo, nil)
	router := setupGroupRouter(handler)

	groupRepo.On("DeleteGroup", mock.Anything, 9, 1).Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/groups/9", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	groupRepo.AssertExpectations(t)
}

func TestDeleteGroupForbidden(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	handler := NewGroupHandler(groupRepo, nil)
	router := setupGroupRouter(handler)

	groupRepo.On("DeleteGroup", mock.Anything, 9, 1).
		Return(errs.Forbidden("group", 9, "requires owner")).Once()

	req := httptest.NewRequest(http.MethodDelete, "/groups/9", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}
