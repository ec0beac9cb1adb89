package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/M1tsumi/ZeroProto/gen"
	"github.com/M1tsumi/ZeroProto/internal/hash"
)

const validSchema = `
enum Role {
    Member = 0;
    Admin = 1;
}

message User {
    user_id: u64;
    name: string;
    role: Role;
}
`

// chdir changes the working directory to dir and restores the previous
// working directory when the test completes.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(prev))
	})
}

// execute runs the root command with args and returns stdout, stderr, and
// the execution error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer

	cmd := NewRootCommand(BuildInfo{Version: "test", Commit: "none", Date: "today"})
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), errOut.String(), err
}

func TestCompileGeneratesCode(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "user.zp")
	writeFile(t, schemaPath, validSchema)
	outDir := filepath.Join(dir, "generated")

	_, _, err := execute(t, "compile", "-i", schemaPath, "-o", outDir)
	require.NoError(t, err)

	code, err := os.ReadFile(filepath.Join(outDir, "user.gen.go"))
	require.NoError(t, err)

	src := string(code)
	require.Contains(t, src, "package generated")
	require.Contains(t, src, "type UserReader struct")
	require.Contains(t, src, "type Role int64")

	fp, ok := gen.HeaderFingerprint(code)
	require.True(t, ok)
	require.Equal(t, hash.FingerprintString(validSchema), fp)
}

func TestCompilePackageOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "user.zp"), validSchema)
	outDir := filepath.Join(dir, "out")

	_, _, err := execute(t, "compile", "-i", dir, "-o", outDir, "--package", "userpb")
	require.NoError(t, err)

	code, err := os.ReadFile(filepath.Join(outDir, "user.gen.go"))
	require.NoError(t, err)
	require.Contains(t, string(code), "package userpb")
}

func TestCompileSkipsUnchangedOutput(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "user.zp")
	writeFile(t, schemaPath, validSchema)
	outDir := filepath.Join(dir, "generated")

	_, _, err := execute(t, "compile", "-i", schemaPath, "-o", outDir)
	require.NoError(t, err)

	// Replace the output body but keep the fingerprint header. A second run
	// must leave the file alone because the source has not changed.
	outPath := filepath.Join(outDir, "user.gen.go")
	marker := "// Code generated by zeroproto. DO NOT EDIT.\n// Source fingerprint: xxhash64:" +
		fingerprintHex(validSchema) + "\n\n// sentinel\npackage generated\n"
	writeFile(t, outPath, marker)

	_, _, err = execute(t, "compile", "-i", schemaPath, "-o", outDir)
	require.NoError(t, err)

	code, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Contains(t, string(code), "// sentinel")
}

func fingerprintHex(src string) string {
	const hexDigits = "0123456789abcdef"

	v := hash.FingerprintString(src)
	out := make([]byte, 16)
	for i := 15; i >= 0; i-- {
		out[i] = hexDigits[v&0xf]
		v >>= 4
	}

	return string(out)
}

func TestCompileReportsDiagnostics(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "bad.zp")
	writeFile(t, schemaPath, "message X {\n    id: u32;\n}\n")

	_, errOut, err := execute(t, "compile", "-i", schemaPath, "-o", filepath.Join(dir, "out"))
	require.Error(t, err)
	require.Equal(t, ExitValidation, ExitCode(err))

	require.Contains(t, errOut, "bad.zp:2:5")
	require.Contains(t, errOut, "error")
	require.Contains(t, errOut, "id: u32;")
	require.Contains(t, errOut, "^")
}

func TestCheckValidSchemas(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.zp"), "message A { x: u8; }")
	writeFile(t, filepath.Join(dir, "b.zp"), "message B { y: u16; }")

	out, _, err := execute(t, "check", "-i", dir)
	require.NoError(t, err)
	require.Contains(t, out, "checked 2 schema(s)")
}

func TestCheckReportsAllFailures(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.zp"), "message A { id: u8; }")
	writeFile(t, filepath.Join(dir, "b.zp"), "message B { b: Unknown; }")

	_, errOut, err := execute(t, "check", "-i", dir)
	require.Error(t, err)
	require.Equal(t, ExitValidation, ExitCode(err))

	// Both files get reported even though the first one already failed.
	require.Contains(t, errOut, "a.zp")
	require.Contains(t, errOut, "b.zp")
}

func TestInspectPrintsStatistics(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "user.zp"), `
enum Role { Member = 0; }
message User {
    user_id: u64;
    role: Role;
    friends: [u64];
    nickname: string?;
    retries: u32 = 3;
}
`)

	out, _, err := execute(t, "inspect", "-i", dir)
	require.NoError(t, err)

	require.Contains(t, out, "messages: 1  enums: 1  fields: 5")
	require.Contains(t, out, "optional: 1  defaulted: 1  vectors: 1")
	require.Contains(t, out, "fingerprint")
}

func TestInspectVerboseListsDeclarations(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "user.zp"), `
enum Role { Member = 0; }
message User { user_id: u64; role: Role; friends: [u64]; }
`)

	out, _, err := execute(t, "inspect", "-i", dir, "--verbose")
	require.NoError(t, err)

	require.Contains(t, out, "enum Role (1 variants)")
	require.Contains(t, out, "message User (3 fields)")
	require.Contains(t, out, "[0] user_id: u64")
	require.Contains(t, out, "[1] role: Role")
	require.Contains(t, out, "[2] friends: [u64]")
}

func TestInspectEmptyInputIsUsageError(t *testing.T) {
	_, _, err := execute(t, "inspect", "-i", t.TempDir())
	require.ErrorIs(t, err, ErrUsage)
	require.Equal(t, ExitUsage, ExitCode(err))
}

func TestInitScaffoldsProject(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	_, _, err := execute(t, "init", "--name", "myservice")
	require.NoError(t, err)

	for _, name := range []string{"go.mod", "main.go", "schemas/example.zp", "README.md", ".gitignore"} {
		_, err := os.Stat(filepath.Join(dir, "myservice", name))
		require.NoError(t, err, "missing %s", name)
	}

	// The example schema must pass its own compiler.
	_, _, err = execute(t, "check", "-i", filepath.Join(dir, "myservice", "schemas"))
	require.NoError(t, err)
}

func TestInitRefusesExistingDirectory(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	require.NoError(t, os.Mkdir("taken", 0o755))

	_, _, err := execute(t, "init", "--name", "taken")
	require.ErrorIs(t, err, ErrUsage)
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "zeroproto test")
}

func TestUnknownFlagIsUsageError(t *testing.T) {
	_, _, err := execute(t, "check", "--bogus")
	require.Equal(t, ExitUsage, ExitCode(err))
}

func TestExitCodeClassification(t *testing.T) {
	require.Equal(t, ExitSuccess, ExitCode(nil))

	_, _, err := execute(t, "check", "-i", filepath.Join(t.TempDir(), "missing"))
	require.Equal(t, ExitIO, ExitCode(err))
}
