package verify

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"

	"github.com/Klingon-tech/tonkeys/internal/store"
)

var sampleWords = []string{
	"vault", "grant", "math", "damage", "slight", "live", "equip", "turtle",
	"taxi", "prize", "phrase", "notice", "cabin", "orbit", "lunar", "spice",
	"rocket", "gentle", "zebra", "hollow", "magnet", "velvet", "ocean", "wisdom",
}

const abandonArt = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon art"

func acceptAll([]string) bool { return true }

func storeWith(words []string) *store.Store {
	st := store.New()
	st.Set(store.Entry{Key: store.KeyMnemonic, Value: store.Words(words)})
	return st
}

func answers(words ...string) string {
	return strings.Join(words, "\n") + "\n"
}

func prompts(out string) int {
	return strings.Count(out, "Enter the word at index #")
}

func TestVerify_SkipWithValidMnemonic(t *testing.T) {
	var out bytes.Buffer
	v := New(storeWith(strings.Fields(abandonArt)), strings.NewReader("garbage\n"), &out)

	res, err := v.Verify(ModeSkip)
	require.NoError(t, err)
	require.Equal(t, Success, res)
	require.True(t, res.OK())
	require.Zero(t, out.Len(), "skip mode must not prompt")
}

func TestVerify_MissingMnemonic(t *testing.T) {
	for _, mode := range []Mode{ModeSkip, ModeInteractive} {
		var out bytes.Buffer
		in := iotest.ErrReader(errors.New("input must not be read"))
		v := New(store.New(), in, &out)

		res, err := v.Verify(mode)
		require.NoError(t, err)
		require.Equal(t, MissingMnemonic, res)
		require.False(t, res.OK())
		require.Zero(t, out.Len())
	}
}

func TestVerify_InvalidMnemonic(t *testing.T) {
	var out bytes.Buffer
	v := New(storeWith(sampleWords), strings.NewReader(answers(sampleWords[:8]...)), &out)

	res, err := v.Verify(ModeInteractive)
	require.NoError(t, err)
	require.Equal(t, InvalidMnemonic, res)
	require.Zero(t, prompts(out.String()))

	res, err = v.Verify(ModeSkip)
	require.NoError(t, err)
	require.Equal(t, InvalidMnemonic, res)
}

func TestVerify_AllWordsMatch(t *testing.T) {
	var out bytes.Buffer
	v := New(storeWith(sampleWords), strings.NewReader(answers(sampleWords[:8]...)), &out,
		WithValidator(acceptAll))

	res, err := v.Verify(ModeInteractive)
	require.NoError(t, err)
	require.Equal(t, Success, res)
	require.Equal(t, Rounds, prompts(out.String()))
	for i := 1; i <= Rounds; i++ {
		require.Contains(t, out.String(), "index #"+string(rune('0'+i))+":")
	}
}

func TestVerify_TrimsWhitespace(t *testing.T) {
	in := "  vault \r\n\tgrant\nmath  \ndamage\nslight\nlive\nequip\nturtle"
	v := New(storeWith(sampleWords), strings.NewReader(in), &bytes.Buffer{},
		WithValidator(acceptAll))

	res, err := v.Verify(ModeInteractive)
	require.NoError(t, err)
	require.Equal(t, Success, res)
}

func TestVerify_MismatchShortCircuits(t *testing.T) {
	for bad := 0; bad < Rounds; bad++ {
		typed := append([]string(nil), sampleWords[:8]...)
		typed[bad] = "wrong"

		var out bytes.Buffer
		v := New(storeWith(sampleWords), strings.NewReader(answers(typed...)), &out,
			WithValidator(acceptAll))

		res, err := v.Verify(ModeInteractive)
		require.NoError(t, err)
		require.Equal(t, WordMismatch, res, "deviation at round %d", bad+1)
		require.Equal(t, bad+1, prompts(out.String()), "no prompts after the failing round")
	}
}

func TestVerify_CaseSensitive(t *testing.T) {
	v := New(storeWith(sampleWords), strings.NewReader(answers("Vault")), &bytes.Buffer{},
		WithValidator(acceptAll))

	res, err := v.Verify(ModeInteractive)
	require.NoError(t, err)
	require.Equal(t, WordMismatch, res)
}

func TestVerify_InputClosed(t *testing.T) {
	var out bytes.Buffer
	v := New(storeWith(sampleWords), strings.NewReader(answers(sampleWords[:3]...)), &out,
		WithValidator(acceptAll))

	res, err := v.Verify(ModeInteractive)
	require.ErrorIs(t, err, ErrInputClosed)
	require.Equal(t, WordMismatch, res)
	require.Equal(t, 4, prompts(out.String()))
}

func TestVerify_ReadError(t *testing.T) {
	boom := errors.New("boom")
	v := New(storeWith(sampleWords), iotest.ErrReader(boom), &bytes.Buffer{},
		WithValidator(acceptAll))

	res, err := v.Verify(ModeInteractive)
	require.ErrorIs(t, err, boom)
	require.Equal(t, WordMismatch, res)
}

func TestVerify_CustomIndices(t *testing.T) {
	indices := []int{23, 0, 11, 5, 17, 2, 9, 20}
	typed := make([]string, len(indices))
	for i, idx := range indices {
		typed[i] = sampleWords[idx]
	}

	var out bytes.Buffer
	v := New(storeWith(sampleWords), strings.NewReader(answers(typed...)), &out,
		WithValidator(acceptAll),
		WithIndices(func(int) []int { return indices }))

	res, err := v.Verify(ModeInteractive)
	require.NoError(t, err)
	require.Equal(t, Success, res)
	require.True(t, strings.HasPrefix(
		strings.TrimPrefix(out.String(), "Let's verify your mnemonic.\n"),
		"Enter the word at index #24: "))
}

func TestVerify_BadIndicesRejected(t *testing.T) {
	tests := map[string][]int{
		"out of range": {0, 1, 2, 3, 4, 5, 6, 24},
		"negative":     {-1, 1, 2, 3, 4, 5, 6, 7},
		"repeated":     {0, 1, 2, 3, 4, 5, 6, 6},
		"too few":      {0, 1, 2},
		"too many":     {0, 1, 2, 3, 4, 5, 6, 7, 8},
	}
	for name, indices := range tests {
		t.Run(name, func(t *testing.T) {
			v := New(storeWith(sampleWords), strings.NewReader(""), &bytes.Buffer{},
				WithValidator(acceptAll),
				WithIndices(func(int) []int { return indices }))

			res, err := v.Verify(ModeInteractive)
			require.Error(t, err)
			require.False(t, res.OK())
		})
	}
}

func TestVerify_ShortMnemonicRejected(t *testing.T) {
	var out bytes.Buffer
	short := sampleWords[:3]
	v := New(storeWith(short), strings.NewReader(answers(short...)), &out,
		WithValidator(acceptAll))

	res, err := v.Verify(ModeInteractive)
	require.Error(t, err)
	require.Equal(t, InvalidMnemonic, res)
	require.Zero(t, prompts(out.String()))
}

func TestVerify_UnknownModeIsInteractive(t *testing.T) {
	var out bytes.Buffer
	v := New(storeWith(sampleWords), strings.NewReader(answers("nope")), &out,
		WithValidator(acceptAll))

	res, err := v.Verify(Mode("whatever"))
	require.NoError(t, err)
	require.Equal(t, WordMismatch, res)
	require.Equal(t, 1, prompts(out.String()))
}

func TestSequential(t *testing.T) {
	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, Sequential(24))
	require.Equal(t, []int{0, 1, 2}, Sequential(3))
}

func TestRandom(t *testing.T) {
	for range 50 {
		got := Random(24)
		require.Len(t, got, Rounds)

		seen := map[int]bool{}
		for _, idx := range got {
			require.GreaterOrEqual(t, idx, 0)
			require.Less(t, idx, 24)
			require.False(t, seen[idx], "index %d repeated", idx)
			seen[idx] = true
		}
	}
}

func TestResult_String(t *testing.T) {
	require.Equal(t, "success", Success.String())
	require.Equal(t, "word mismatch", WordMismatch.String())
	require.Equal(t, "result(42)", Result(42).String())
}
