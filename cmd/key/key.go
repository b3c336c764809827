package key

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/go-zkwallet/internal/app"
	"github/chapool/go-zkwallet/internal/eip712"
	"github/chapool/go-zkwallet/internal/util/command"
	"github/chapool/go-zkwallet/internal/wallet/keys"
	"golang.org/x/term"
)

const (
	outFlag          string = "out"
	passwordFileFlag string = "password-file"
)

func New() *cobra.Command {
	return command.NewSubcommandGroup("key",
		newMnemonic(),
		newEncrypt(),
	)
}

func newMnemonic() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Generates a BIP-39 mnemonic and prints it with its first address",
		Long: `Generates a BIP-39 mnemonic and prints it with its first address.

With --out the mnemonic is written to an encrypted keystore file instead of
being printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			outPath, err := cmd.Flags().GetString(outFlag)
			if err != nil {
				return err
			}

			mnemonic, err := keys.NewMnemonic()
			if err != nil {
				return err
			}

			privateKey, err := keys.FromMnemonic(mnemonic, "", keys.DefaultDerivationPath)
			if err != nil {
				return err
			}
			address := crypto.PubkeyToAddress(privateKey.PublicKey).Hex()

			if outPath == "" {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "mnemonic: %s\naddress:  %s\npath:     %s\n",
					mnemonic, address, keys.DefaultDerivationPath)
				return err
			}

			passwordFile, err := cmd.Flags().GetString(passwordFileFlag)
			if err != nil {
				return err
			}
			password, err := ReadPassword(cmd.InOrStdin(), cmd.ErrOrStderr(), passwordFile)
			if err != nil {
				return err
			}

			sealed, err := keys.SealMnemonic(mnemonic, password, keystore.StandardScryptN, keystore.StandardScryptP)
			if err != nil {
				return err
			}
			if err := os.WriteFile(outPath, sealed, 0o600); err != nil {
				return errors.Wrapf(err, "failed to write %s", outPath)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "address:  %s\npath:     %s\nkeystore: %s\n",
				address, keys.DefaultDerivationPath, outPath)
			return err
		},
	}

	cmd.Flags().String(outFlag, "", "Write the mnemonic to an encrypted keystore file")
	cmd.Flags().String(passwordFileFlag, "", "Read the password from a file instead of prompting")

	return cmd
}

func newEncrypt() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Writes the configured key to an encrypted keystore file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			outPath, err := cmd.Flags().GetString(outFlag)
			if err != nil {
				return err
			}
			passwordFile, err := cmd.Flags().GetString(passwordFileFlag)
			if err != nil {
				return err
			}

			cfg, err := command.LoadConfig(cmd)
			if err != nil {
				return err
			}
			privateKey, err := app.NewPrivateKey(cfg)
			if err != nil {
				return err
			}

			password, err := ReadPassword(cmd.InOrStdin(), cmd.ErrOrStderr(), passwordFile)
			if err != nil {
				return err
			}

			keyJSON, err := keys.EncryptKeystore(privateKey, password, keystore.StandardScryptN, keystore.StandardScryptP)
			if err != nil {
				return err
			}

			if err := os.WriteFile(outPath, keyJSON, 0o600); err != nil {
				return errors.Wrapf(err, "failed to write %s", outPath)
			}

			log.Info().
				Str("address", crypto.PubkeyToAddress(privateKey.PublicKey).Hex()).
				Str("path", outPath).
				Msg("Keystore written")

			return nil
		},
	}

	cmd.Flags().String(outFlag, "keystore.json", "Path of the keystore file to write")
	cmd.Flags().String(passwordFileFlag, "", "Read the password from a file instead of prompting")

	return cmd
}

// ReadPassword reads the keystore password from passwordFile when set, and
// otherwise prompts on the terminal behind in. Input that is not a terminal
// is read up to the first newline.
func ReadPassword(in io.Reader, prompt io.Writer, passwordFile string) (string, error) {
	if passwordFile != "" {
		content, err := os.ReadFile(passwordFile)
		if err != nil {
			return "", errors.Wrapf(err, "failed to read %s", passwordFile)
		}
		return nonEmpty(strings.TrimRight(string(content), "\r\n"))
	}

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		_, _ = fmt.Fprint(prompt, "Password: ")
		password, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(prompt)
		if err != nil {
			return "", errors.Wrap(err, "failed to read password")
		}
		return nonEmpty(string(password))
	}

	content, err := io.ReadAll(in)
	if err != nil {
		return "", errors.Wrap(err, "failed to read password")
	}
	line, _, _ := strings.Cut(string(content), "\n")
	return nonEmpty(strings.TrimRight(line, "\r"))
}

func nonEmpty(password string) (string, error) {
	if password == "" {
		return "", errors.Wrap(eip712.ErrInvalidInput, "password must not be empty")
	}
	return password, nil
}
