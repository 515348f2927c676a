package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/ai"
	"github.com/custodia-labs/ragdesk/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

const redacted = "********"

var configCmd = &cobra.Command{
	Use:         "config",
	Short:       "Inspect configuration",
	Annotations: map[string]string{annotationNoServices: "true"},
}

var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Print the effective configuration",
	Long:        `Prints the configuration after defaults and environment overrides. API keys are redacted.`,
	Annotations: map[string]string{annotationNoServices: "true"},
	RunE:        runConfigShow,
}

var configCheckCmd = &cobra.Command{
	Use:         "check",
	Short:       "Validate configuration and provider connectivity",
	Annotations: map[string]string{annotationNoServices: "true"},
	RunE:        runConfigCheck,
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key [embedding|llm|qdrant]",
	Short: "Store an API key in the config file",
	Long: `Prompts for an API key and writes it to the config file. Input is not
echoed when reading from a terminal; otherwise the first line of stdin is used.`,
	Args:        cobra.ExactArgs(1),
	ValidArgs:   []string{"embedding", "llm", "qdrant"},
	Annotations: map[string]string{annotationNoServices: "true"},
	RunE:        runConfigSetKey,
}

// aiValidator checks provider connectivity for `config check`.
var aiValidator driven.AIConfigValidator = ai.NewConfigValidator()

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configCheckCmd)
	configCmd.AddCommand(configSetKeyCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigSetKey(cmd *cobra.Command, args []string) error {
	target := args[0]
	var set func(c *file.Config, key string)
	switch target {
	case "embedding":
		set = func(c *file.Config, key string) { c.Embedding.APIKey = key }
	case "llm":
		set = func(c *file.Config, key string) { c.LLM.APIKey = key }
	case "qdrant":
		set = func(c *file.Config, key string) { c.Vector.QdrantKey = key }
	default:
		return fmt.Errorf("unknown key %q: want embedding, llm or qdrant", target)
	}

	path, err := resolveConfigPath()
	if err != nil {
		return err
	}

	cmd.Printf("%s API key: ", target)
	key, err := readSecret(cmd.InOrStdin())
	cmd.Println()
	if err != nil {
		return err
	}
	if key == "" {
		return errors.New("no key entered")
	}

	if err := file.Edit(path, func(c *file.Config) error {
		set(c, key)
		return nil
	}); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	cmd.Printf("Saved %s key (%s) to %s\n", target, maskKey(key), path)
	return nil
}

// readSecret reads one line without echo when in is a terminal.
func readSecret(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", fmt.Errorf("read key: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read key: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	shown := *cfg
	if shown.Embedding.APIKey != "" {
		shown.Embedding.APIKey = redacted
	}
	if shown.LLM.APIKey != "" {
		shown.LLM.APIKey = redacted
	}
	if shown.Vector.QdrantKey != "" {
		shown.Vector.QdrantKey = redacted
	}

	data, err := toml.Marshal(&shown)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	cmd.Print(string(data))
	return nil
}

func runConfigCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var errs []error
	check := func(name string, err error) {
		if err != nil {
			cmd.Printf("  ✗ %s: %v\n", name, err)
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			return
		}
		cmd.Printf("  ✓ %s\n", name)
	}

	cmd.Println("Checking configuration:")
	check("config", cfg.Validate())

	embedding := cfg.EmbeddingSettings()
	check(fmt.Sprintf("embedding (%s/%s)", embedding.Provider, embedding.Model), aiValidator.ValidateEmbedding(cmd.Context(), &embedding))

	llm := cfg.LLMSettings()
	check(fmt.Sprintf("llm (%s/%s)", llm.Provider, llm.Model), aiValidator.ValidateLLM(cmd.Context(), &llm))

	return errors.Join(errs...)
}
