package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/crosslane/bridge-orchestrator/orchestrator/config"
	"github.com/crosslane/bridge-orchestrator/orchestrator/constant"
	"github.com/crosslane/bridge-orchestrator/orchestrator/keys"
	"github.com/crosslane/bridge-orchestrator/orchestrator/logger"
)

var accountIndexFlag uint32

// keysCmd returns the keys command with per-chain subcommand trees.
func keysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage bridge signing keys",
		Long: `
The keys commands manage the signing keys the orchestrator uses on each
chain. Keys are encrypted with an operator passphrase and stored one file
per key under the keystore directory.

Available Commands (per chain):
  add     Create a new random key
  import  Import a key from a BIP39 mnemonic
  delete  Delete a key
  rename  Rename a key
  list    List all keys
  show    Show a key's public identity
`,
	}

	cmd.AddCommand(chainKeysCmd("cosmos", keys.ChainCosmos))
	cmd.AddCommand(chainKeysCmd("eth", keys.ChainEthereum))

	return cmd
}

func chainKeysCmd(use string, chain keys.Chain) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("Manage %s chain keys", use),
	}

	cmd.AddCommand(keysAddCmd(chain))
	cmd.AddCommand(keysImportCmd(chain))
	cmd.AddCommand(keysDeleteCmd(chain))
	cmd.AddCommand(keysRenameCmd(chain))
	cmd.AddCommand(keysListCmd(chain))
	cmd.AddCommand(keysShowCmd(chain))

	return cmd
}

// openKeystore loads config, makes sure the keystore directory exists and
// wires the engine together. Directory creation lives here because the
// engine itself refuses to create its root.
func openKeystore() (*keys.Keystore, zerolog.Logger, error) {
	cfg, err := config.Load(constant.DefaultNodeHome)
	if err != nil {
		cfg = config.Default(constant.DefaultNodeHome)
		if saveErr := config.Save(&cfg, constant.DefaultNodeHome); saveErr != nil {
			return nil, zerolog.Nop(), fmt.Errorf("failed to save default config: %w", saveErr)
		}
	}

	log := logger.Init(cfg)

	if err := os.MkdirAll(cfg.KeystorePath, 0o700); err != nil {
		return nil, log, fmt.Errorf("failed to create keystore directory: %w", err)
	}

	store, err := keys.NewStore(cfg.KeystorePath, log)
	if err != nil {
		return nil, log, err
	}

	return keys.New(store, keys.DefaultAdapters(cfg.Bech32Prefix), log), log, nil
}

func keysAddCmd(chain keys.Chain) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Create a new random key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ks, _, err := openKeystore()
			if err != nil {
				return err
			}

			passphrase, err := promptNewPassphrase()
			if err != nil {
				return err
			}

			info, err := ks.Add(args[0], chain, passphrase)
			if err != nil {
				return err
			}

			printKeyInfo(cmd, info)
			return nil
		},
	}
}

func keysImportCmd(chain keys.Chain) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <name>",
		Short: "Import a key from a BIP39 mnemonic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ks, _, err := openKeystore()
			if err != nil {
				return err
			}

			mnemonic, err := readMnemonic()
			if err != nil {
				return err
			}
			passphrase, err := promptNewPassphrase()
			if err != nil {
				return err
			}

			info, err := ks.Import(args[0], chain, mnemonic, passphrase,
				keys.WithAccountIndex(accountIndexFlag))
			if err != nil {
				return err
			}

			printKeyInfo(cmd, info)
			return nil
		},
	}

	cmd.Flags().Uint32Var(&accountIndexFlag, "account-index", 0, "BIP44 account index to derive")

	return cmd
}

func keysDeleteCmd(chain keys.Chain) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a key (irreversible)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ks, _, err := openKeystore()
			if err != nil {
				return err
			}
			if err := ks.Delete(args[0], chain); err != nil {
				return err
			}
			cmd.Printf("Key %q deleted\n", args[0])
			return nil
		},
	}
}

func keysRenameCmd(chain keys.Chain) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <name> <new-name>",
		Short: "Rename a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ks, _, err := openKeystore()
			if err != nil {
				return err
			}
			if err := ks.Rename(args[0], args[1], chain); err != nil {
				return err
			}
			cmd.Printf("Key %q renamed to %q\n", args[0], args[1])
			return nil
		},
	}
}

func keysListCmd(chain keys.Chain) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ks, _, err := openKeystore()
			if err != nil {
				return err
			}
			entries, err := ks.List(chain)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				cmd.Println("No keys found in keystore")
				return nil
			}
			for _, e := range entries {
				cmd.Printf("%s\t%s\n", e.Name, e.Address)
			}
			return nil
		},
	}
}

func keysShowCmd(chain keys.Chain) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a key's public identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ks, _, err := openKeystore()
			if err != nil {
				return err
			}

			passphrase, err := promptPassphrase("Enter passphrase: ")
			if err != nil {
				return err
			}

			info, err := ks.Show(args[0], chain, passphrase)
			if err != nil {
				return err
			}

			printKeyInfo(cmd, info)
			return nil
		},
	}
}

func printKeyInfo(cmd *cobra.Command, info *keys.KeyInfo) {
	cmd.Printf("Name: %s\n", info.Name)
	cmd.Printf("Chain: %s\n", info.Chain)
	cmd.Printf("Address: %s\n", info.Address)
	cmd.Printf("Public Key: %x\n", info.PublicKey)
	if info.DerivationPath != "" {
		cmd.Printf("Derivation Path: %s\n", info.DerivationPath)
	}
}
