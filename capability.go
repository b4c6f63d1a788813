package ferry

// HashAlgo names a digest algorithm usable with Fingerprint.
type HashAlgo string

const (
	// HashSHA256 uses SHA-256. The digest is 32 bytes.
	HashSHA256 HashAlgo = "sha256"

	// HashSHA512 uses SHA-512. The digest is 64 bytes.
	HashSHA512 HashAlgo = "sha512"

	// HashBLAKE2b uses BLAKE2b-256. The digest is 32 bytes.
	HashBLAKE2b HashAlgo = "blake2b"

	// HashBLAKE3 uses BLAKE3 with its default 32 byte output.
	HashBLAKE3 HashAlgo = "blake3"
)

// validHashAlgos contains all algorithms Fingerprint accepts.
var validHashAlgos = map[HashAlgo]bool{
	HashSHA256:  true,
	HashSHA512:  true,
	HashBLAKE2b: true,
	HashBLAKE3:  true,
}

// IsValidHashAlgo returns true if the algorithm is a known hash algorithm.
func IsValidHashAlgo(algo HashAlgo) bool {
	return validHashAlgos[algo]
}
