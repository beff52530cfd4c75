package walletconn

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

const timeFormat = "2006-01-02T15:04:05Z"

// SaveSession records the connected account for a network so the dashboard
// can restore the last session on restart.
func SaveSession(sessionDir, network, account string) error {
	if err := os.MkdirAll(sessionDir, os.ModePerm); err != nil {
		return fmt.Errorf("error creating session directory: %w", err)
	}

	envFile := filepath.Join(sessionDir, network+".env")
	return godotenv.Write(map[string]string{
		"CONNECTED_ACCOUNT": account,
		"CONNECTED_AT":      time.Now().UTC().Format(timeFormat),
	}, envFile)
}

// LoadSession returns the last connected account for a network, or empty if
// no session was saved.
func LoadSession(sessionDir, network string) (string, error) {
	envFile := filepath.Join(sessionDir, network+".env")
	values, err := godotenv.Read(envFile)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("error loading session file: %w", err)
	}
	return values["CONNECTED_ACCOUNT"], nil
}

// ClearSession removes a saved session; missing files are not an error.
func ClearSession(sessionDir, network string) error {
	envFile := filepath.Join(sessionDir, network+".env")
	if err := os.Remove(envFile); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
