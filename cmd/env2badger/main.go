package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"github.com/betbot/okx/pkg/config"
	"github.com/betbot/okx/pkg/secretstore"
)

func main() {
	var (
		inPath    = flag.String("in", ".env", "input .env file path")
		dbPath    = flag.String("badger", getenv("OKX_SECRET_DB", "data/secrets.badger"), "badger secrets db path")
		secretKey = flag.String("secret-key", getenv("OKX_SECRET_KEY_DB", ""), "badger encryption key (32 bytes base64/hex)")
		prefix    = flag.String("prefix", config.SecretKeyPrefix, "key prefix inside badger")
		only      = flag.String("only", "OKX_", "import only keys with this prefix (empty = all)")
	)
	flag.Parse()

	keyBytes, err := secretstore.ParseKey(*secretKey)
	if err != nil {
		fatal(err)
	}
	if keyBytes == nil {
		fatal(fmt.Errorf("secret key is required: set OKX_SECRET_KEY_DB or pass -secret-key"))
	}

	kv, err := godotenv.Read(*inPath)
	if err != nil {
		fatal(err)
	}

	written, err := importEnv(*dbPath, keyBytes, *prefix, *only, kv)
	if err != nil {
		fatal(err)
	}
	fmt.Fprintf(os.Stderr, "已导入 %d 项到 badger：%s（前缀 %s）\n", written, *dbPath, *prefix)
}

// importEnv 把 kv 中以 only 开头的项写入 badger，返回写入数量
func importEnv(dbPath string, key []byte, prefix, only string, kv map[string]string) (int, error) {
	ss, err := secretstore.Open(secretstore.OpenOptions{
		Path:          dbPath,
		EncryptionKey: key,
	})
	if err != nil {
		return 0, err
	}
	defer ss.Close()

	names := make([]string, 0, len(kv))
	for k := range kv {
		if strings.HasPrefix(k, only) {
			names = append(names, k)
		}
	}
	sort.Strings(names)

	for _, k := range names {
		if err := ss.SetString(prefix+k, kv[k]); err != nil {
			return 0, fmt.Errorf("写入 %s 失败: %w", k, err)
		}
	}
	return len(names), nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err.Error())
	os.Exit(1)
}
