package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTodoJSON_OmitsAbsentFields(t *testing.T) {
	todo := Todo{Description: "Buy milk", DueDate: MustParseDate("2024-06-01")}

	b, err := json.Marshal(todo)
	require.NoError(t, err)
	assert.JSONEq(t, `{"description":"Buy milk","dueDate":"2024-06-01","checkMark":false}`, string(b))
}

func TestTodoJSON_Decode(t *testing.T) {
	var todo Todo
	err := json.Unmarshal([]byte(`{"id":7,"description":"x","dueDate":"2024-06-01","checkMark":true,"completionDate":"2024-06-02"}`), &todo)
	require.NoError(t, err)

	assert.Equal(t, int64(7), todo.ID)
	assert.Equal(t, "2024-06-01", todo.DueDate.String())
	require.NotNil(t, todo.CompletionDate)
	assert.Equal(t, "2024-06-02", todo.CompletionDate.String())
}

func TestDate_UnmarshalRejectsGarbage(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"06/01/2024"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`20240601`), &d))
}

func TestDate_NullAndEmpty(t *testing.T) {
	d := MustParseDate("2024-01-01")
	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.True(t, d.IsZero())

	d = MustParseDate("2024-01-01")
	require.NoError(t, json.Unmarshal([]byte(`""`), &d))
	assert.True(t, d.IsZero())
}

func TestNewDate_TruncatesToDay(t *testing.T) {
	loc := time.FixedZone("X", 3*3600)
	d := NewDate(time.Date(2024, 6, 1, 23, 30, 0, 0, loc))
	assert.Equal(t, "2024-06-01", d.String())
}

func TestRolePrivileges(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.False(t, UserRole("ROLE_GUEST").Valid())
	assert.Empty(t, UserRole("ROLE_GUEST").Privileges())

	p := UserProfile{UserRole: RoleUser, Privileges: RoleUser.Authorities()}
	assert.True(t, p.HasPrivilege(DeleteTodos))
	assert.False(t, p.HasPrivilege(Privilege("ADMINISTER")))
}
