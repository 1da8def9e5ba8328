package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
)

// GetQueryCmd returns the cli query commands for the stakepool module
func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "stakepool",
		Short:                      "Querying commands for the stakepool module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdQueryPool(),
		CmdQueryPosition(),
		CmdQueryPendingReward(),
	)

	return cmd
}

// CmdQueryPool returns the command to query a pool
func CmdQueryPool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool [pool-id]",
		Short: "Query a staking pool's state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// For MVP demo, show the query shape; live data comes via the
			// REST API service
			pool := map[string]interface{}{
				"pool_id":          args[0],
				"total_staked":     "0",
				"reward_per_share": "0",
				"emission_rate":    "0",
			}

			output, _ := json.MarshalIndent(pool, "", "  ")
			fmt.Println(string(output))
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryPosition returns the command to query a position
func CmdQueryPosition() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "position [pool-id] [owner]",
		Short: "Query a staker's position in a pool",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("Position query for %s in pool %s requires running node connection\n", args[1], args[0])
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryPendingReward returns the command to query claimable rewards
func CmdQueryPendingReward() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pending-reward [pool-id] [owner]",
		Short: "Query the reward an owner could claim right now",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("Pending reward query for %s in pool %s requires running node connection\n", args[1], args[0])
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}
