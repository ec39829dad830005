package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGameSession_PathKey(t *testing.T) {
	a := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	b := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	c := uuid.MustParse("33333333-3333-3333-3333-333333333333")

	session := GameSession{History: []uuid.UUID{a, b}, CurrentPageID: c}
	assert.Equal(t,
		"11111111-1111-1111-1111-111111111111->22222222-2222-2222-2222-222222222222->33333333-3333-3333-3333-333333333333",
		session.PathKey(),
	)

	fresh := GameSession{CurrentPageID: a}
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", fresh.PathKey())
}

func TestGameSession_PathLength(t *testing.T) {
	session := GameSession{History: []uuid.UUID{uuid.New(), uuid.New()}, CurrentPageID: uuid.New()}
	assert.Equal(t, 3, session.PathLength())

	fresh := GameSession{CurrentPageID: uuid.New()}
	assert.Equal(t, 1, fresh.PathLength())
}

func TestGameSession_HasItem(t *testing.T) {
	session := GameSession{Inventory: []string{"torch", "key", "torch"}}
	assert.True(t, session.HasItem("torch"))
	assert.True(t, session.HasItem("key"))
	assert.False(t, session.HasItem("sword"))

	empty := GameSession{}
	assert.False(t, empty.HasItem("torch"))
}

func TestPage_EndingTypeOrDefault(t *testing.T) {
	heroic := "heroic"
	empty := ""
	assert.Equal(t, "heroic", (&Page{IsEnding: true, EndingType: &heroic}).EndingTypeOrDefault())
	assert.Equal(t, DefaultEndingType, (&Page{IsEnding: true}).EndingTypeOrDefault())
	assert.Equal(t, DefaultEndingType, (&Page{IsEnding: true, EndingType: &empty}).EndingTypeOrDefault())
}
