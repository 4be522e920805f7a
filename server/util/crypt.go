// Copyright (C) 2026 Christian Rößner
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

package util

import (
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"hash"
	"regexp"
	"strings"

	"github.com/croessner/sqlauth/server/definitions"
	"github.com/croessner/sqlauth/server/errors"
	"github.com/simia-tech/crypt"
)

// CryptPassword is a container for an encrypted password typically used in SQL fields.
type CryptPassword struct {
	definitions.Algorithm
	definitions.PasswordOption
	Password string
	Salt     []byte
}

// Generate creates the encrypted form of a plain text password.
// It sets the Algorithm, PasswordOption, Salt, and Password fields of the CryptPassword struct
// and returns the generated password string.
func (c *CryptPassword) Generate(plainPassword string, salt []byte, alg definitions.Algorithm, pwOption definitions.PasswordOption) (
	string, error,
) {
	var hashValue hash.Hash

	switch alg {
	case definitions.SSHA512:
		hashValue = sha512.New()
	case definitions.SSHA256:
		hashValue = sha256.New()
	default:
		return "", errors.ErrUnsupportedAlgorithm
	}

	c.Algorithm = alg
	c.Salt = salt

	hashValue.Write([]byte(plainPassword))
	hashValue.Write(salt)

	hashSum := hashValue.Sum(nil)

	hashWithSalt := make([]byte, len(hashSum)+len(salt))
	copy(hashWithSalt, hashSum)
	copy(hashWithSalt[len(hashSum):], salt)

	switch pwOption {
	case definitions.ENCB64:
		c.Password = base64.StdEncoding.EncodeToString(hashWithSalt)
		c.PasswordOption = definitions.ENCB64
	case definitions.ENCHEX:
		c.Password = hex.EncodeToString(hashWithSalt)
		c.PasswordOption = definitions.ENCHEX
	default:
		return "", errors.ErrUnsupportedPasswordOption
	}

	return c.Password, nil
}

// Full format: {SSHA256.B64}payload or {SSHA512.HEX}payload; option and dot are optional, default B64
var passwordPrefixPattern = regexp.MustCompile(`^\{SSHA(256|512)(?:\.(HEX|B64))?}(.+)$`)

// GetParameters splits an encoded password into its components.
// It extracts the salt, algorithm, and password option from the crypted password
// and sets the corresponding fields in the CryptPassword struct.
func (c *CryptPassword) GetParameters(cryptedPassword string) (
	salt []byte, alg definitions.Algorithm, pwOption definitions.PasswordOption, err error,
) {
	var decodedPwSalt []byte

	alg = definitions.SSHAUNKNOWN
	pwOption = definitions.ENCUNKNOWN

	subs := passwordPrefixPattern.FindStringSubmatch(cryptedPassword)
	if len(subs) != 4 { // full match + 3 capture groups
		return nil, alg, pwOption, errors.ErrUnsupportedAlgorithm
	}

	switch subs[1] {
	case "512":
		alg = definitions.SSHA512
	case "256":
		alg = definitions.SSHA256
	default:
		return nil, alg, pwOption, errors.ErrUnsupportedAlgorithm
	}

	c.Algorithm = alg

	// Option defaults to B64 when the suffix is absent.
	switch subs[2] {
	case "HEX":
		pwOption = definitions.ENCHEX
	case "B64", "":
		pwOption = definitions.ENCB64
	default:
		return nil, alg, pwOption, errors.ErrUnsupportedPasswordOption
	}

	c.PasswordOption = pwOption
	c.Password = subs[3]

	if pwOption == definitions.ENCB64 {
		decodedPwSalt, err = base64.StdEncoding.DecodeString(c.Password)
	} else {
		decodedPwSalt, err = hex.DecodeString(c.Password)
	}

	if err != nil {
		return nil, alg, pwOption, err
	}

	if alg == definitions.SSHA512 {
		if len(decodedPwSalt) < 65 {
			return nil, alg, pwOption, errors.ErrUnsupportedAlgorithm
		}

		salt = decodedPwSalt[64:]
	} else {
		if len(decodedPwSalt) < 33 {
			return nil, alg, pwOption, errors.ErrUnsupportedAlgorithm
		}

		salt = decodedPwSalt[32:]
	}

	c.Salt = salt

	return salt, alg, pwOption, nil
}

// ComparePasswords takes a plain password and creates a hash. Then it compares the hashed passwords and returns true, if
// both passwords are equal. If an error occurs, the result is false for the compare operation and the error is returned.
// This function uses constant-time comparison to prevent timing attacks.
func ComparePasswords(hashPassword string, plainPassword string) (bool, error) {
	if strings.HasPrefix(hashPassword, "{SSHA") {
		password := &CryptPassword{}

		salt, alg, pwOption, err := password.GetParameters(hashPassword)
		if err != nil {
			return false, err
		}

		newPassword := &CryptPassword{}
		_, err = newPassword.Generate(plainPassword, salt, alg, pwOption)
		if err != nil {
			return false, err
		}

		return subtle.ConstantTimeCompare([]byte(password.Password), []byte(newPassword.Password)) == 1, nil
	}

	// Supported passwords: MD5, SSHA256, SSHA512, bcrypt, Argon2i, Argon2id
	_, _, _, pwhash, err := crypt.DecodeSettings(hashPassword)
	if err != nil {
		return false, err
	}

	settings, _, found := strings.Cut(hashPassword, pwhash)
	if !found {
		return false, errors.ErrUnsupportedAlgorithm
	}

	encoded, err := crypt.Crypt(plainPassword, settings)
	if err != nil {
		return false, err
	}

	return subtle.ConstantTimeCompare([]byte(encoded), []byte(hashPassword)) == 1, nil
}
