package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter config file",
	Run: func(cmd *cobra.Command, args []string) {
		filename := "kurtosis.yaml"
		if _, err := os.Stat(filename); err == nil {
			fmt.Fprintf(os.Stderr, "Error: %s already exists\n", filename)
			os.Exit(1)
		}

		template := `# Kurtosis configuration - every field is optional,
# defaults point at the production KURT endpoints.

directory_url: https://kurtosis.breitburg.com/studyspaces.json
api_base_url: https://wsrt.ghum.kuleuven.be/service1.asmx
booking_base_url: https://www-sso.groupware.kuleuven.be/sites/KURT/Pages/NEW-Reservation.aspx
checkin_base_url: https://kurt3.ghum.kuleuven.be/check-in/

# Upstream fetch timeout.
timeout_seconds: 30

# Only used with "kurtosis serve --http".
server:
  listen: ":8765"
  rate_limit_per_sec: 5
  rate_limit_burst: 10
`

		if err := os.WriteFile(filename, []byte(template), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating config: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Created %s\n", filename)
		fmt.Println("Run with: kurtosis serve --config kurtosis.yaml")
	},
}
