package builtins

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"

	"n3reason/internal/ns"
	"n3reason/internal/prover"
	"n3reason/internal/subst"
	"n3reason/internal/term"
)

func addCrypto(table map[string]prover.BuiltinFunc) {
	digest := func(sum func([]byte) []byte) prover.BuiltinFunc {
		return func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
			str, isStr := asString(goal.Subject)
			if !isStr {
				return fail()
			}
			hash := sum([]byte(str))
			return unifyBind(goal.Object, stringTerm(ctx.Interner, hex.EncodeToString(hash)))
		}
	}
	table[ns.Q(ns.Crypto, "md5")] = digest(func(b []byte) []byte { h := md5.Sum(b); return h[:] })
	table[ns.Q(ns.Crypto, "sha")] = digest(func(b []byte) []byte { h := sha1.Sum(b); return h[:] })
	table[ns.Q(ns.Crypto, "sha256")] = digest(func(b []byte) []byte { h := sha256.Sum256(b); return h[:] })
	table[ns.Q(ns.Crypto, "sha512")] = digest(func(b []byte) []byte { h := sha512.Sum512(b); return h[:] })
}
