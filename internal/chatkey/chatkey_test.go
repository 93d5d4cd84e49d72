package chatkey

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDirect(t *testing.T) {
	a := uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001")
	b := uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000002")

	t.Run("symmetric", func(t *testing.T) {
		assert.Equal(t, Direct(a, b), Direct(b, a))
	})

	t.Run("deterministic ordering", func(t *testing.T) {
		assert.Equal(t, "dm:"+a.String()+":"+b.String(), Direct(b, a))
	})

	t.Run("distinct pairs get distinct keys", func(t *testing.T) {
		c := uuid.MustParse("cccccccc-0000-0000-0000-000000000003")
		assert.NotEqual(t, Direct(a, b), Direct(a, c))
	})
}

func TestNamespacesAreDisjoint(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	direct := Direct(a, b)
	group := Group(a)

	assert.True(t, IsDirect(direct))
	assert.False(t, IsGroup(direct))
	assert.True(t, IsGroup(group))
	assert.False(t, IsDirect(group))
	assert.NotEqual(t, direct, group)
}

func TestGroupKeyPerCaregiver(t *testing.T) {
	caregiver := uuid.New()
	assert.Equal(t, "grp:"+caregiver.String(), Group(caregiver))
	assert.Equal(t, Group(caregiver), Group(caregiver))
}
