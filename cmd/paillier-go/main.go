// Command paillier-go manages key material for the library.
//
//	paillier-go keygen -bits 2048 -pub public.key -priv private.key
//	paillier-go fingerprint -pub public.key
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/openphe/paillier-go/pkg/phe/paillier"
)

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "keygen":
		keygen(os.Args[2:])
	case "fingerprint":
		fingerprint(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: paillier-go <keygen|fingerprint> [flags]")
}

func keygen(args []string) {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	bits := fs.Int("bits", 2048, "modulus size in bits")
	pubPath := fs.String("pub", "public.key", "output path for the public key")
	privPath := fs.String("priv", "private.key", "output path for the private key")
	_ = fs.Parse(args)

	keys, err := paillier.GenerateKey(*bits)
	if err != nil {
		log.Fatalf("generate key: %v", err)
	}
	if err := paillier.SavePublicKey(*pubPath, keys.Public); err != nil {
		log.Fatalf("save public key: %v", err)
	}
	if err := paillier.SavePrivateKey(*privPath, keys.Private); err != nil {
		log.Fatalf("save private key: %v", err)
	}

	fmt.Printf("generated %d-bit key\n", keys.Public.N.BitLen())
	fmt.Printf("public key:  %s\n", *pubPath)
	fmt.Printf("private key: %s\n", *privPath)
	fmt.Printf("fingerprint: %s\n", hex.EncodeToString(keys.Public.Fingerprint()))
}

func fingerprint(args []string) {
	fs := flag.NewFlagSet("fingerprint", flag.ExitOnError)
	pubPath := fs.String("pub", "public.key", "path to the public key")
	_ = fs.Parse(args)

	pub, err := paillier.LoadPublicKey(*pubPath)
	if err != nil {
		log.Fatalf("load public key: %v", err)
	}
	fmt.Printf("%d-bit key, fingerprint %s\n", pub.N.BitLen(), hex.EncodeToString(pub.Fingerprint()))
}
