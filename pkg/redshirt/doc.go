/*
Package redshirt holds the error surface shared by the Redshirt 1 and Redshirt 2 codecs.
The codecs themselves live in the redshirt1 and redshirt2 subpackages, and each is usable without importing the other.

Note that neither format is encryption.
Payload bytes are screened with a fixed, reversible bit flip, so the formats only prevent casual inspection of the data at rest.

# How it works:

Both formats start with a fixed 9-byte marker that identifies the format, followed by the payload with every byte XORed with 0x80.
Redshirt 2 additionally stores a 20-byte SHA-1 digest of the screened payload bytes between the marker and the payload, and a redshirt2.Reader verifies the whole stream against that digest before exposing a single payload byte.

Readers and writers wrap any byte stream and expose logical offsets that start at 0 on the first payload byte.
Seeking before the payload, to a negative offset, or past the address space fails with ErrInvalidSeek and leaves the stream usable.

# General guidelines:
  - Use errors.Is with the sentinel errors in this package to tell validation failures apart from I/O failures.
  - A redshirt2.Writer must be finalized with Close or Unwrap so the digest can be patched into the header. A discarded, unfinalized stream still carries the placeholder digest and will fail verification when read back.
  - Redshirt 2 writers deliberately do not seek; the digest has to cover the stream exactly as written.
*/
package redshirt
