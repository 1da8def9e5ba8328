package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/tx"

	"github.com/waveline/stakechain/x/stakepool/types"
)

// GetTxCmd returns the transaction commands for the stakepool module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "stakepool",
		Short:                      "Stakepool module transaction commands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdCreatePool(),
		CmdConfigureEmission(),
		CmdUpdatePoolParams(),
		CmdOpenPosition(),
		CmdDeposit(),
		CmdWithdraw(),
		CmdClaim(),
		CmdClosePosition(),
	)

	return cmd
}

// CmdCreatePool returns the command to create a pool
func CmdCreatePool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-pool [pool-id] [stake-denom] [reward-denom] [lock-duration] [lock-bonus-bps]",
		Short: "Create a new staking pool",
		Long: `Create a new staking pool.

Examples:
  stakechaind tx stakepool create-pool wave-usdc uwave uusdc 604800 2000 --from authority`,
		Args: cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			lockDuration, err := strconv.ParseInt(args[3], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid lock duration: %v", err)
			}
			lockBonusBps, err := strconv.ParseInt(args[4], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid lock bonus: %v", err)
			}

			msg := &types.MsgCreatePool{
				Authority:    clientCtx.GetFromAddress().String(),
				PoolID:       args[0],
				StakeDenom:   args[1],
				RewardDenom:  args[2],
				LockDuration: lockDuration,
				LockBonusBps: lockBonusBps,
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdConfigureEmission returns the command to fund and schedule emissions
func CmdConfigureEmission() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "configure-emission [pool-id] [total-reward] [duration] [start-time]",
		Short: "Fund a pool and install a linear emission schedule",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			duration, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid duration: %v", err)
			}
			startTime, err := strconv.ParseInt(args[3], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid start time: %v", err)
			}

			msg := &types.MsgConfigureEmission{
				Authority:   clientCtx.GetFromAddress().String(),
				PoolID:      args[0],
				TotalReward: args[1],
				Duration:    duration,
				StartTime:   startTime,
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdUpdatePoolParams returns the command to update a pool's lock policy
func CmdUpdatePoolParams() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update-pool [pool-id] [lock-duration] [lock-bonus-bps]",
		Short: "Update a pool's lock policy for future positions",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			lockDuration, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid lock duration: %v", err)
			}
			lockBonusBps, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid lock bonus: %v", err)
			}

			msg := &types.MsgUpdatePoolParams{
				Authority:    clientCtx.GetFromAddress().String(),
				PoolID:       args[0],
				LockDuration: lockDuration,
				LockBonusBps: lockBonusBps,
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdOpenPosition returns the command to open an empty position
func CmdOpenPosition() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open-position [pool-id]",
		Short: "Open an empty position in a pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgOpenPosition{
				Owner:  clientCtx.GetFromAddress().String(),
				PoolID: args[0],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdDeposit returns the command to stake into a pool
func CmdDeposit() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deposit [pool-id] [amount] [lock-kind]",
		Short: "Stake principal into a pool",
		Long: `Stake principal into a pool. The first deposit fixes the lock kind.

Examples:
  stakechaind tx stakepool deposit wave-usdc 1000000 flexible --from alice
  stakechaind tx stakepool deposit wave-usdc 1000000 locked --from bob`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			lockKind := strings.ToLower(args[2])
			if lockKind != types.LockKindFlexible && lockKind != types.LockKindLocked {
				return fmt.Errorf("invalid lock kind: %s (use 'flexible' or 'locked')", args[2])
			}

			msg := &types.MsgDeposit{
				Owner:    clientCtx.GetFromAddress().String(),
				PoolID:   args[0],
				Amount:   args[1],
				LockKind: lockKind,
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdWithdraw returns the command to unstake principal
func CmdWithdraw() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "withdraw [pool-id] [amount]",
		Short: "Withdraw staked principal from a pool",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgWithdraw{
				Owner:  clientCtx.GetFromAddress().String(),
				PoolID: args[0],
				Amount: args[1],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdClaim returns the command to claim accrued rewards
func CmdClaim() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claim [pool-id]",
		Short: "Claim all accrued rewards from a pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgClaim{
				Owner:  clientCtx.GetFromAddress().String(),
				PoolID: args[0],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdClosePosition returns the command to close an empty position
func CmdClosePosition() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "close-position [pool-id]",
		Short: "Close an empty position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgClosePosition{
				Owner:  clientCtx.GetFromAddress().String(),
				PoolID: args[0],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}
