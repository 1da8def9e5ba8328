package types

import (
	"errors"
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

func testAddr(b byte) string {
	addr := make([]byte, 20)
	for i := range addr {
		addr[i] = b
	}
	return sdk.AccAddress(addr).String()
}

// TestMsgCreatePoolValidateBasic tests pool creation message validation
func TestMsgCreatePoolValidateBasic(t *testing.T) {
	authority := testAddr(1)

	testCases := []struct {
		name    string
		msg     MsgCreatePool
		wantErr bool
	}{
		{
			name: "valid",
			msg: MsgCreatePool{
				Authority:    authority,
				PoolID:       "alpha",
				StakeDenom:   "ustake",
				RewardDenom:  "ureward",
				LockDuration: 86400,
				LockBonusBps: 500,
			},
		},
		{
			name: "bad authority",
			msg: MsgCreatePool{
				Authority:   "not-an-address",
				PoolID:      "alpha",
				StakeDenom:  "ustake",
				RewardDenom: "ureward",
			},
			wantErr: true,
		},
		{
			name: "missing pool id",
			msg: MsgCreatePool{
				Authority:   authority,
				StakeDenom:  "ustake",
				RewardDenom: "ureward",
			},
			wantErr: true,
		},
		{
			name: "bad stake denom",
			msg: MsgCreatePool{
				Authority:   authority,
				PoolID:      "alpha",
				StakeDenom:  "",
				RewardDenom: "ureward",
			},
			wantErr: true,
		},
		{
			name: "negative lock duration",
			msg: MsgCreatePool{
				Authority:    authority,
				PoolID:       "alpha",
				StakeDenom:   "ustake",
				RewardDenom:  "ureward",
				LockDuration: -1,
			},
			wantErr: true,
		},
		{
			name: "bonus above cap",
			msg: MsgCreatePool{
				Authority:    authority,
				PoolID:       "alpha",
				StakeDenom:   "ustake",
				RewardDenom:  "ureward",
				LockBonusBps: MaxLockBonusBps + 1,
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.msg.ValidateBasic()
			if tc.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

// TestMsgCreatePoolErrorKinds tests that each validation failure surfaces
// the error naming the actual fault
func TestMsgCreatePoolErrorKinds(t *testing.T) {
	authority := testAddr(1)
	base := MsgCreatePool{
		Authority:   authority,
		PoolID:      "alpha",
		StakeDenom:  "ustake",
		RewardDenom: "ureward",
	}

	msg := base
	msg.PoolID = ""
	if err := msg.ValidateBasic(); !errors.Is(err, ErrInvalidPoolID) {
		t.Errorf("empty pool id: expected ErrInvalidPoolID, got %v", err)
	}

	msg = base
	msg.LockDuration = -1
	if err := msg.ValidateBasic(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative lock duration: expected ErrInvalidAmount, got %v", err)
	}

	msg = base
	msg.StakeDenom = "!"
	if err := msg.ValidateBasic(); !errors.Is(err, ErrInvalidDenom) {
		t.Errorf("bad stake denom: expected ErrInvalidDenom, got %v", err)
	}

	msg = base
	msg.LockBonusBps = MaxLockBonusBps + 1
	if err := msg.ValidateBasic(); !errors.Is(err, ErrInvalidLockBonus) {
		t.Errorf("bonus above cap: expected ErrInvalidLockBonus, got %v", err)
	}
}

// TestMsgConfigureEmissionValidateBasic tests emission message validation
func TestMsgConfigureEmissionValidateBasic(t *testing.T) {
	authority := testAddr(1)

	testCases := []struct {
		name    string
		msg     MsgConfigureEmission
		wantErr bool
	}{
		{
			name: "valid",
			msg: MsgConfigureEmission{
				Authority:   authority,
				PoolID:      "alpha",
				TotalReward: "604800",
				Duration:    604800,
				StartTime:   1_700_000_000,
			},
		},
		{
			name: "zero reward",
			msg: MsgConfigureEmission{
				Authority:   authority,
				PoolID:      "alpha",
				TotalReward: "0",
				Duration:    100,
			},
			wantErr: true,
		},
		{
			name: "non-numeric reward",
			msg: MsgConfigureEmission{
				Authority:   authority,
				PoolID:      "alpha",
				TotalReward: "lots",
				Duration:    100,
			},
			wantErr: true,
		},
		{
			name: "zero duration",
			msg: MsgConfigureEmission{
				Authority:   authority,
				PoolID:      "alpha",
				TotalReward: "100",
				Duration:    0,
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.msg.ValidateBasic()
			if tc.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

// TestMsgDepositValidateBasic tests deposit message validation
func TestMsgDepositValidateBasic(t *testing.T) {
	owner := testAddr(2)

	testCases := []struct {
		name    string
		msg     MsgDeposit
		wantErr bool
	}{
		{
			name: "valid flexible",
			msg:  MsgDeposit{Owner: owner, PoolID: "alpha", Amount: "1000", LockKind: LockKindFlexible},
		},
		{
			name: "valid locked",
			msg:  MsgDeposit{Owner: owner, PoolID: "alpha", Amount: "1000", LockKind: LockKindLocked},
		},
		{
			name:    "negative amount",
			msg:     MsgDeposit{Owner: owner, PoolID: "alpha", Amount: "-5", LockKind: LockKindFlexible},
			wantErr: true,
		},
		{
			name:    "amount above bound",
			msg:     MsgDeposit{Owner: owner, PoolID: "alpha", Amount: "18446744073709551616", LockKind: LockKindFlexible},
			wantErr: true,
		},
		{
			name:    "unknown lock kind",
			msg:     MsgDeposit{Owner: owner, PoolID: "alpha", Amount: "1000", LockKind: "weekly"},
			wantErr: true,
		},
		{
			name:    "missing pool",
			msg:     MsgDeposit{Owner: owner, Amount: "1000", LockKind: LockKindFlexible},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.msg.ValidateBasic()
			if tc.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}

	bad := MsgDeposit{Owner: owner, PoolID: "alpha", Amount: "1000", LockKind: "weekly"}
	if err := bad.ValidateBasic(); !errors.Is(err, ErrInvalidLockKind) {
		t.Errorf("unknown lock kind: expected ErrInvalidLockKind, got %v", err)
	}
}

// TestMsgWithdrawValidateBasic tests withdraw message validation
func TestMsgWithdrawValidateBasic(t *testing.T) {
	owner := testAddr(2)

	if err := (MsgWithdraw{Owner: owner, PoolID: "alpha", Amount: "1"}).ValidateBasic(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (MsgWithdraw{Owner: owner, PoolID: "alpha", Amount: "0"}).ValidateBasic(); err == nil {
		t.Error("expected error for zero amount")
	}
	if err := (MsgWithdraw{Owner: "bad", PoolID: "alpha", Amount: "1"}).ValidateBasic(); err == nil {
		t.Error("expected error for bad owner")
	}
}

// TestMsgClaimValidateBasic tests claim message validation
func TestMsgClaimValidateBasic(t *testing.T) {
	owner := testAddr(2)

	if err := (MsgClaim{Owner: owner, PoolID: "alpha"}).ValidateBasic(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (MsgClaim{Owner: owner}).ValidateBasic(); err == nil {
		t.Error("expected error for missing pool id")
	}
}
