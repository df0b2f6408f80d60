package inbox

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type conv struct {
	id     string
	vendor string
	unread int64
}

func (c conv) GroupKey() string { return c.vendor }
func (c conv) Unread() int64    { return c.unread }

func ids(cs []conv) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.id)
	}
	return out
}

func TestGroupByVendorExample(t *testing.T) {
	convs := []conv{
		{id: "a1", vendor: "A", unread: 3},
		{id: "b1", vendor: "B", unread: 5},
		{id: "a2", vendor: "A", unread: 0},
	}

	groups := GroupByVendor(convs)
	require.Len(t, groups, 2)

	assert.Equal(t, "B", groups[0].VendorId)
	assert.Equal(t, int64(5), groups[0].TotalUnread)
	assert.Equal(t, "A", groups[1].VendorId)
	assert.Equal(t, int64(3), groups[1].TotalUnread)
	assert.Equal(t, []string{"a1", "a2"}, ids(groups[1].Events))
}

func TestGroupByVendorTieKeepsFirstAppearance(t *testing.T) {
	convs := []conv{
		{id: "c1", vendor: "C", unread: 1},
		{id: "a1", vendor: "A", unread: 2},
		{id: "b1", vendor: "B", unread: 1},
		{id: "d1", vendor: "D", unread: 0},
		{id: "c2", vendor: "C", unread: 1},
		{id: "e1", vendor: "E", unread: 0},
	}

	groups := GroupByVendor(convs)
	got := make([]string, 0, len(groups))
	for _, g := range groups {
		got = append(got, g.VendorId)
	}
	// C and A tie at 2, B alone at 1, D and E tie at 0
	assert.Equal(t, []string{"C", "A", "B", "D", "E"}, got)
}

func TestGroupByVendorEmpty(t *testing.T) {
	groups := GroupByVendor[conv](nil)
	assert.Empty(t, groups)

	_, ok := PickInitial(groups)
	assert.False(t, ok)
}

func TestGroupByVendorProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 200; round++ {
		n := rng.Intn(30)
		convs := make([]conv, 0, n)
		var total int64
		for i := 0; i < n; i++ {
			c := conv{
				id:     fmt.Sprintf("c%d", i),
				vendor: fmt.Sprintf("v%d", rng.Intn(6)),
				unread: int64(rng.Intn(4)),
			}
			total += c.unread
			convs = append(convs, c)
		}

		groups := GroupByVendor(convs)

		var sum int64
		seen := 0
		for i, g := range groups {
			sum += g.TotalUnread
			seen += len(g.Events)
			if i > 0 {
				assert.GreaterOrEqual(t, groups[i-1].TotalUnread, g.TotalUnread)
			}

			// events keep input relative order
			var expected []string
			for _, c := range convs {
				if c.vendor == g.VendorId {
					expected = append(expected, c.id)
				}
			}
			assert.Equal(t, expected, ids(g.Events))
		}
		assert.Equal(t, total, sum)
		assert.Equal(t, n, seen)
	}
}

func TestAutoExpand(t *testing.T) {
	groups := GroupByVendor([]conv{
		{id: "a1", vendor: "A", unread: 1},
		{id: "a2", vendor: "A", unread: 0},
		{id: "b1", vendor: "B", unread: 4},
		{id: "c1", vendor: "C", unread: 0},
		{id: "c2", vendor: "C", unread: 0},
	})

	expanded := ExpandedSet{}
	AutoExpand(groups, expanded)
	assert.True(t, expanded.Has("A"))
	assert.False(t, expanded.Has("B"), "single conversation groups stay collapsed")
	assert.False(t, expanded.Has("C"), "groups without unread stay collapsed")

	AutoExpand(groups, expanded)
	assert.Len(t, expanded, 1)

	expanded.Expand("C")
	AutoExpand(groups, expanded)
	assert.True(t, expanded.Has("C"), "manual expansion survives")
}

func TestExpandedSetToggle(t *testing.T) {
	s := ExpandedSet{}
	assert.True(t, s.Toggle("A"))
	assert.True(t, s.Has("A"))
	assert.False(t, s.Toggle("A"))
	assert.False(t, s.Has("A"))
}

func TestPickInitial(t *testing.T) {
	t.Run("first unread in top group", func(t *testing.T) {
		groups := GroupByVendor([]conv{
			{id: "a1", vendor: "A", unread: 0},
			{id: "a2", vendor: "A", unread: 2},
			{id: "b1", vendor: "B", unread: 1},
		})
		pick, ok := PickInitial(groups)
		require.True(t, ok)
		assert.Equal(t, "a2", pick.id)
	})

	t.Run("falls back to first conversation", func(t *testing.T) {
		groups := GroupByVendor([]conv{
			{id: "a1", vendor: "A", unread: 0},
			{id: "a2", vendor: "A", unread: 0},
		})
		pick, ok := PickInitial(groups)
		require.True(t, ok)
		assert.Equal(t, "a1", pick.id)
	})
}
