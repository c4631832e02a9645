package labels

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "nohardhat", Normalize("NO-Hardhat"))
	assert.Equal(t, "nohardhat", Normalize("no_hardhat"))
	assert.Equal(t, "nosafetyvest", Normalize("NO-Safety Vest"))
	assert.Equal(t, "nosafetyvest", Normalize(" no-safety vest "))
	assert.Equal(t, "person", Normalize("Person"))
	assert.NotEqual(t, Normalize("hardhat"), Normalize("no-hardhat"))
	assert.NotEqual(t, Normalize("Safety Vest"), Normalize("NO-Safety Vest"))
}

func TestMatches(t *testing.T) {
	aliases := []string{"no-hardhat", "nohardhat"}
	assert.True(t, Matches("NO-Hardhat", aliases))
	assert.True(t, Matches("No_Hardhat", aliases))
	assert.False(t, Matches("Hardhat", aliases))
	assert.False(t, Matches("2", aliases))
	assert.False(t, Matches("person", nil))
}

func TestAliasSet(t *testing.T) {
	vest := NewAliasSet("no-safety vest", "nosafetyvest")
	assert.Len(t, vest, 1)
	assert.True(t, vest.Matches("NO-Safety Vest"))
	assert.False(t, vest.Matches("Safety Vest"))
}

func TestLoadClassNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ppe.txt")
	content := "Hardhat\nNO-Hardhat\n  Person  \n\nvehicle\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	names, err := LoadClassNames(path)
	require.NoError(t, err)
	assert.Equal(t, "Hardhat", names.Name(0))
	assert.Equal(t, "Person", names.Name(2))
	assert.Equal(t, "", names.Name(3))
	assert.Equal(t, "vehicle", names.Name(4))
	assert.Equal(t, "5", names.Name(5))
}

func TestClassNamesOrDefault(t *testing.T) {
	names, err := ClassNamesOrDefault("", DefaultFireClasses())
	require.NoError(t, err)
	assert.Equal(t, "smoke", names.Name(1))

	_, err = ClassNamesOrDefault(filepath.Join(t.TempDir(), "missing.txt"), DefaultFireClasses())
	require.Error(t, err)
}
