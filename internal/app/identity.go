package app

import (
	"errors"
	"fmt"

	"plebai/internal/crypto"
	"plebai/internal/domain"
)

// bunkerClientSlot keeps the NIP-46 client key so an approved client stays
// approved across runs.
const bunkerClientSlot = "bunker_client_sk"

// ErrKeyExists is returned by ProvisionKey when the slot is already filled.
var ErrKeyExists = errors.New("app: key slot already holds a key")

// ProvisionKey generates a key into the configured slot for the
// localstorage method. An existing key is kept unless force is set.
func (w *Wire) ProvisionKey(force bool) (domain.Identity, error) {
	slot := w.Settings.KeySlot
	if existing, ok, err := w.Secrets.LoadSecret(slot); err != nil {
		return domain.Identity{}, err
	} else if ok && !force {
		sk, err := crypto.ParseSecretKey(existing)
		if err != nil {
			return domain.Identity{}, fmt.Errorf("slot %s: %w", slot, err)
		}
		pk, err := crypto.PublicKey(sk)
		if err != nil {
			return domain.Identity{}, err
		}
		return domain.Identity{PublicKey: pk}, fmt.Errorf("%w: %s", ErrKeyExists, slot)
	}

	id, err := crypto.NewIdentity()
	if err != nil {
		return domain.Identity{}, err
	}
	if err := w.Secrets.SaveSecret(slot, id.SecretKey); err != nil {
		return domain.Identity{}, err
	}
	w.Log.Info().Str("slot", slot).Str("path", w.Secrets.Path()).Msg("key provisioned")
	return id, nil
}

func (w *Wire) bunkerClientSecret() (string, error) {
	if sk, ok, err := w.Secrets.LoadSecret(bunkerClientSlot); err != nil {
		return "", err
	} else if ok {
		return sk, nil
	}
	sk, err := crypto.GenerateSecretKey()
	if err != nil {
		return "", err
	}
	if err := w.Secrets.SaveSecret(bunkerClientSlot, sk); err != nil {
		return "", err
	}
	return sk, nil
}
