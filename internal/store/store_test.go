package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStore_SetGet(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value Value
	}{
		{"string", "label", String("main")},
		{"words", KeyMnemonic, Words{"a", "b", "c"}},
		{"record", "meta", Record{"path": "m/44'/607'/0'"}},
		{"empty words", "none", Words{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			s.Set(Entry{tt.key, tt.value})

			got, ok := s.Get(tt.key)
			require.True(t, ok)
			require.Equal(t, tt.value, got)
			require.Equal(t, tt.value.Kind(), got.Kind())
		})
	}
}

func TestStore_GetAbsent(t *testing.T) {
	s := New()
	v, ok := s.Get("never-set")
	require.False(t, ok)
	require.Nil(t, v)
}

func TestStore_MnemonicScenario(t *testing.T) {
	s := New()
	s.Set(Entry{KeyMnemonic, Words{"a", "b", "c"}})

	words, ok := s.GetWords(KeyMnemonic)
	require.True(t, ok)
	require.Equal(t, []string{"a", "b", "c"}, words)

	s.Remove(KeyMnemonic)
	_, ok = s.Get(KeyMnemonic)
	require.False(t, ok)
}

func TestStore_SetManyInOrder(t *testing.T) {
	s := New()
	s.Set(
		Entry{"k", String("first")},
		Entry{"other", String("x")},
		Entry{"k", String("second")},
	)

	got, ok := s.GetString("k")
	require.True(t, ok)
	require.Equal(t, "second", got)
	require.Equal(t, 2, s.Len())
}

func TestStore_Overwrite(t *testing.T) {
	s := New()
	s.Set(Entry{KeyMnemonic, Words{"one"}})
	s.Set(Entry{KeyMnemonic, Words{"two"}})

	words, ok := s.GetWords(KeyMnemonic)
	require.True(t, ok)
	require.Equal(t, []string{"two"}, words)
	require.Equal(t, 1, s.Len())
}

func TestStore_SetNilKeepsKey(t *testing.T) {
	s := New()
	s.Set(Entry{"k", String("v")})
	s.Set(Entry{"k", nil})

	v, ok := s.Get("k")
	require.True(t, ok)
	require.Nil(t, v)
	require.Equal(t, 1, s.Len())
	require.Contains(t, s.Entries(), "k")

	_, ok = s.GetString("k")
	require.False(t, ok)

	s.Remove("k")
	_, ok = s.Get("k")
	require.False(t, ok)
}

func TestStore_RemoveAbsentIsNoop(t *testing.T) {
	s := New()
	s.Set(Entry{"keep", String("v")})
	s.Remove("missing")
	require.Equal(t, 1, s.Len())
}

func TestStore_ClearIdempotent(t *testing.T) {
	s := New()
	s.Set(Entry{"a", String("1")}, Entry{"b", Words{"x"}})

	s.Clear()
	require.Empty(t, s.Entries())

	s.Clear()
	require.Empty(t, s.Entries())
	require.Equal(t, 0, s.Len())
}

func TestStore_EntriesSnapshot(t *testing.T) {
	s := New()
	s.Set(Entry{"a", String("1")}, Entry{KeyMnemonic, Words{"w1", "w2"}})

	snap := s.Entries()
	require.Len(t, snap, 2)
	require.Equal(t, String("1"), snap["a"])

	// Mutating the snapshot does not leak into the store.
	snap["a"] = String("changed")
	snap[KeyMnemonic].(Words)[0] = "tampered"
	delete(snap, KeyMnemonic)

	got, _ := s.GetString("a")
	require.Equal(t, "1", got)
	words, ok := s.GetWords(KeyMnemonic)
	require.True(t, ok)
	require.Equal(t, []string{"w1", "w2"}, words)
}

func TestStore_NoAliasing(t *testing.T) {
	s := New()
	in := []string{"vault", "grant"}
	s.Set(Entry{KeyMnemonic, Words(in)})

	in[0] = "changed"
	out, _ := s.GetWords(KeyMnemonic)
	require.Equal(t, "vault", out[0])

	out[1] = "changed"
	again, _ := s.GetWords(KeyMnemonic)
	require.Equal(t, "grant", again[1])

	rec := Record{"k": "v"}
	s.Set(Entry{"r", rec})
	rec["k"] = "x"
	got, ok := s.GetRecord("r")
	require.True(t, ok)
	require.Equal(t, "v", got["k"])
}

func TestStore_TypedGettersWrongVariant(t *testing.T) {
	s := New()
	s.Set(Entry{"k", String("v")})

	_, ok := s.GetWords("k")
	require.False(t, ok)
	_, ok = s.GetRecord("k")
	require.False(t, ok)

	s.Set(Entry{"w", Words{"a"}})
	_, ok = s.GetString("w")
	require.False(t, ok)
}
