package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/M1tsumi/ZeroProto/internal/logging"
)

const scaffoldFilePermissions = 0o644

type initFlags struct {
	name       string
	currentDir bool
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new zeroproto project",
		Long: `Scaffold a new project with a schemas directory and an example schema.

The project gets a go.mod, a main.go, a schemas/ directory with an example
schema, a README, and a .gitignore covering the generated output.

Examples:
  zeroproto init --name myservice
  zeroproto init --name myservice --current-dir`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInit(flags)
		},
	}

	cmd.Flags().StringVarP(&flags.name, "name", "n", "", "project name")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().BoolVar(&flags.currentDir, "current-dir", false, "create the project in the current directory")

	return cmd
}

func runInit(flags *initFlags) error {
	logger := logging.Default()

	projectDir := flags.name
	if flags.currentDir {
		projectDir = "."
	} else {
		if _, err := os.Stat(projectDir); err == nil {
			return fmt.Errorf("%w: directory already exists: %s", ErrUsage, projectDir)
		}

		if err := os.Mkdir(projectDir, 0o755); err != nil {
			return fmt.Errorf("create project directory: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Join(projectDir, "schemas"), 0o755); err != nil {
		return fmt.Errorf("create schemas directory: %w", err)
	}

	files := map[string]string{
		"go.mod":             scaffoldGoMod(flags.name),
		"main.go":            scaffoldMain,
		"schemas/example.zp": scaffoldSchema(flags.name),
		"README.md":          scaffoldReadme(flags.name),
		".gitignore":         scaffoldGitignore,
	}

	for name, content := range files {
		path := filepath.Join(projectDir, name)
		if err := os.WriteFile(path, []byte(content), scaffoldFilePermissions); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}

		logger.Info("created file", logging.FieldPath, path)
	}

	logger.Info("project initialized", "name", flags.name)
	logger.Info("compile schemas with: zeroproto compile -i schemas/ -o generated/")

	return nil
}

func scaffoldGoMod(name string) string {
	return fmt.Sprintf("module %s\n\ngo 1.24\n\nrequire github.com/M1tsumi/ZeroProto v0.2.0\n", name)
}

const scaffoldMain = `package main

import "fmt"

func main() {
	// Generated readers and builders land in generated/ after
	// "zeroproto compile".
	fmt.Println("hello, zeroproto")
}
`

func scaffoldSchema(name string) string {
	return fmt.Sprintf(`// Example schema for the %s project.
message User {
    user_id: u64;
    username: string;
    email: string;
    age: u8;
}
`, name)
}

func scaffoldReadme(name string) string {
	return fmt.Sprintf(`# %s

A zeroproto project.

## Usage

1. Edit the schema files in schemas/
2. Run "zeroproto compile -i schemas/ -o generated/" to generate Go code
3. Use the generated readers and builders in your application

## Example

	builder, _ := generated.NewUserBuilder()
	_ = builder.SetUserID(123)
	_ = builder.SetUsername("alice")
	image, _ := builder.Finish()

	user, _ := generated.NewUserReader(image)
	name, _ := user.Username()
`, name)
}

const scaffoldGitignore = `# Generated code
generated/

# Go
*.test
*.out
`
