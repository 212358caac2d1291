package header

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chainlynx/lightclient/chainhash"
)

func TestBitcoinBlockOneHash(t *testing.T) {
	prevHash, err := chainhash.NewHashFromStr("000000000019d6689c085ae165831e934ff763ae46a2a6c172b3f1b60a8ce26f")
	require.NoError(t, err)

	merkleRoot, err := chainhash.NewHashFromStr("0e3e2357e806b6cdb1f70b54c3a3a17b6714ee1f0e68bebb44a74b1efd512098")
	require.NoError(t, err)

	h := Header{
		Version:    1,
		PrevBlock:  *prevHash,
		MerkleRoot: *merkleRoot,
		Time:       1231469665,
		Bits:       486604799,
		Nonce:      2573394689,
	}

	const want = "00000000839a8e6886ab5951d76f411475428afc90947ee320161bbf18eb6048"
	require.Equal(t, want, h.BlockHash().String())
}

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{Version: 536870912, Time: 1734025733, Bits: 0x1e03ffff, Nonce: 1640674470}
	b := h.Bytes()
	require.Len(t, b, Size)

	got, err := FromBytes(b)
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestHeaderFromBytesRejectsWrongLength(t *testing.T) {
	_, err := FromBytes([]byte{1, 2, 3})
	require.Error(t, err)
}
