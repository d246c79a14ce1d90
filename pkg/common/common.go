package common

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/spf13/cast"
)

var (
	snowflakeNode *snowflake.Node
	snowflakeOnce sync.Once
)

// UUIDint64 returns a time-ordered unique int64 id.
func UUIDint64() int64 {
	snowflakeOnce.Do(func() {
		nodeID := cast.ToInt64(os.Getenv("CANDY_NODE_ID"))
		var err error
		snowflakeNode, err = snowflake.NewNode(nodeID % 1024)
		if err != nil {
			panic(err)
		}
	})
	return snowflakeNode.Generate().Int64()
}

// Sha256HashWithSalt returns the hex sha256 of s concatenated with salt.
func Sha256HashWithSalt(s string, salt string) string {
	sum := sha256.Sum256([]byte(s + salt))
	return hex.EncodeToString(sum[:])
}

// GetSecretSalt returns the process-wide hashing salt, overridable by env.
func GetSecretSalt() string {
	if v := os.Getenv("CANDY_SECRET_SALT"); v != "" {
		return v
	}
	return "candycommerce"
}
