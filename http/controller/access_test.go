package controller

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAccessEntries(t *testing.T) {
	env := newTestEnv(t)
	env.ssm.params["/poc/allowedCreators"] = `[{"email":"a@prezm.com","isAdmin":true},{"email":"b@prezm.com","isAdmin":false}]`

	w := perform(t, env.ctrl.ListAccessEntries, http.MethodGet, "/users", "", "b@prezm.com")
	require.Equal(t, http.StatusOK, w.Code)

	users, ok := decodeBody(t, w)["users"].([]interface{})
	require.True(t, ok)
	assert.Len(t, users, 2)
}

func TestAddAccessEntryRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.allow("dev@prezm.com", false)

	w := perform(t, env.ctrl.AddAccessEntry, http.MethodPost, "/users",
		`{"email":"new@prezm.com"}`, "dev@prezm.com")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, `[{"email":"dev@prezm.com","isAdmin":false}]`, env.ssm.params["/poc/allowedCreators"])
}

func TestAddAccessEntryAsAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.allow("admin@prezm.com", true)

	w := perform(t, env.ctrl.AddAccessEntry, http.MethodPost, "/users",
		`{"email":"new@prezm.com","isAdmin":false}`, "admin@prezm.com")
	require.Equal(t, http.StatusOK, w.Code)

	users := decodeBody(t, w)["users"].([]interface{})
	assert.Len(t, users, 2)
	assert.JSONEq(t,
		`[{"email":"admin@prezm.com","isAdmin":true},{"email":"new@prezm.com","isAdmin":false}]`,
		env.ssm.params["/poc/allowedCreators"])
}

func TestAddAccessEntryValidatesEmail(t *testing.T) {
	env := newTestEnv(t)
	env.allow("admin@prezm.com", true)

	w := perform(t, env.ctrl.AddAccessEntry, http.MethodPost, "/users",
		`{"email":"not-an-email"}`, "admin@prezm.com")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoveAccessEntryAsAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.ssm.params["/poc/allowedCreators"] = `[{"email":"admin@prezm.com","isAdmin":true},{"email":"old@prezm.com","isAdmin":false}]`

	w := perform(t, env.ctrl.RemoveAccessEntry, http.MethodDelete, "/users",
		`{"email":"old@prezm.com"}`, "admin@prezm.com")
	require.Equal(t, http.StatusOK, w.Code)

	users := decodeBody(t, w)["users"].([]interface{})
	assert.Len(t, users, 1)
	assert.JSONEq(t, `[{"email":"admin@prezm.com","isAdmin":true}]`, env.ssm.params["/poc/allowedCreators"])
}

func TestRemoveAccessEntryRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.allow("dev@prezm.com", false)

	w := perform(t, env.ctrl.RemoveAccessEntry, http.MethodDelete, "/users",
		`{"email":"dev@prezm.com"}`, "dev@prezm.com")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAccessEndpointsRequireAuthenticatedCaller(t *testing.T) {
	env := newTestEnv(t)

	w := perform(t, env.ctrl.AddAccessEntry, http.MethodPost, "/users",
		`{"email":"new@prezm.com"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
