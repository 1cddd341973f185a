package formats

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_Builtins(t *testing.T) {
	r, err := NewRegistry("", logging.NewMockLogger())
	require.NoError(t, err)

	assert.Equal(t, []string{"cal", "generic", "isracard", "max", "revolut", "selma", "visa-debit"}, r.Names())

	visa, err := r.Get("VISA-DEBIT")
	require.NoError(t, err)
	assert.Equal(t, ';', visa.DelimiterRune())
	assert.Equal(t, "Bénéficiaire", visa.Column(models.FieldDescription))
	assert.Equal(t, "builtin", r.Source("visa-debit"))

	revolut, err := r.Get("revolut")
	require.NoError(t, err)
	assert.Empty(t, revolut.Column(models.FieldTransactionCode))

	maxFmt, err := r.Get("max")
	require.NoError(t, err)
	assert.True(t, maxFmt.CreditCardFormat)
	assert.True(t, maxFmt.InvertedSigns())
	assert.Equal(t, []string{"תשלום"}, maxFmt.InstallmentPatterns())

	_, err = r.Get("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format 'nope'")
	assert.Contains(t, err.Error(), "generic")
}

func TestNewRegistry_UserFileOverridesBuiltin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "formats.yaml")
	content := `formats:
  - name: generic
    mapping:
      date: Datum
      amount: Betrag
      description: Text
    date_format: dd.MM.yyyy
  - name: bank-x
    delimiter: "\t"
    mapping:
      date: Booked
      amount: Value
      description: Memo
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	logger := logging.NewMockLogger()
	r, err := NewRegistry(path, logger)
	require.NoError(t, err)

	generic, err := r.Get("generic")
	require.NoError(t, err)
	assert.Equal(t, "Datum", generic.Column(models.FieldDate))
	assert.Equal(t, path, r.Source("generic"))

	bank, err := r.Get("bank-x")
	require.NoError(t, err)
	assert.Equal(t, '\t', bank.DelimiterRune())
	assert.True(t, logger.HasEntry("INFO", "Loaded format descriptors"))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		count   int
		wantErr string
	}{
		{
			name:  "single descriptor document",
			input: "name: one\nmapping:\n  date: d\n  amount: a\n  description: t\n",
			count: 1,
		},
		{
			name:    "missing required mapping",
			input:   "formats:\n  - name: broken\n    mapping:\n      date: d\n",
			wantErr: `mapping for required field "amount" is missing`,
		},
		{
			name: "duplicate names",
			input: "formats:\n  - name: a\n    credit_card_format: true\n" +
				"  - name: A\n    credit_card_format: true\n",
			wantErr: "defined more than once",
		},
		{
			name:    "empty document",
			input:   "other: 1\n",
			wantErr: "no format descriptors found",
		},
		{
			name:    "malformed yaml",
			input:   "formats: [",
			wantErr: "error parsing formats",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			descs, err := Parse([]byte(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, descs, tt.count)
		})
	}
}

func TestLoadFile_NotFound(t *testing.T) {
	r, err := NewRegistry("", logging.NewMockLogger())
	require.NoError(t, err)

	err = r.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", dir)

	require.NoError(t, os.MkdirAll("config", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("config", DefaultFileName), []byte("x"), 0o600))

	found, err := FindConfigFile(DefaultFileName)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("config", DefaultFileName), found)

	_, err = FindConfigFile("absent.yaml")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMarshal_RoundTripsThroughParse(t *testing.T) {
	r, err := NewRegistry("", nil)
	require.NoError(t, err)
	isracard, err := r.Get("isracard")
	require.NoError(t, err)

	out, err := Marshal(isracard)
	require.NoError(t, err)
	descs, err := Parse(out)
	require.NoError(t, err)
	require.Len(t, descs, 1)
	assert.Equal(t, isracard.Mapping, descs[0].Mapping)
}
