/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: catalog.go
Description: Static command catalog for the RESP fuzzing harness. Holds the
wire-level shape of every command the harness may generate: required argument
slots, optional slots, and keyword choices. Built once at startup and shared
read-only; adding a command is a table edit, not a code-dispatch change. The
table covers the target's surface including Dragonfly-specific families
(FT.*, BF.*, CF.*, CMS.*, JSON.*, vector commands). Blocking commands
(BLPOP, SUBSCRIBE, MONITOR, XREAD, WAIT) are intentionally absent: a blocked
read would burn the whole iteration budget without exercising the parser.
*/

package catalog

import (
	"github.com/kleascm/resp-fuzzer/pkg/interfaces"
)

// Slot constructors keep the table readable.

func key() interfaces.Slot      { return interfaces.Slot{Shape: interfaces.ShapeKey} }
func keys() interfaces.Slot     { return interfaces.Slot{Shape: interfaces.ShapeKey, Variadic: true} }
func val() interfaces.Slot      { return interfaces.Slot{Shape: interfaces.ShapeValue} }
func vals() interfaces.Slot     { return interfaces.Slot{Shape: interfaces.ShapeValue, Variadic: true} }
func num() interfaces.Slot      { return interfaces.Slot{Shape: interfaces.ShapeNumeric} }
func flt() interfaces.Slot      { return interfaces.Slot{Shape: interfaces.ShapeFloat} }
func score() interfaces.Slot    { return interfaces.Slot{Shape: interfaces.ShapeScore} }
func pat() interfaces.Slot      { return interfaces.Slot{Shape: interfaces.ShapePattern} }
func jsonv() interfaces.Slot    { return interfaces.Slot{Shape: interfaces.ShapeJSON} }
func vec() interfaces.Slot      { return interfaces.Slot{Shape: interfaces.ShapeVector} }
func streamID() interfaces.Slot { return interfaces.Slot{Shape: interfaces.ShapeStreamID} }

func flag(tokens ...string) interfaces.Slot {
	return interfaces.Slot{Shape: interfaces.ShapeFlag, Tokens: tokens}
}

func req(slots ...interfaces.Slot) []interfaces.Slot { return slots }
func opt(slots ...interfaces.Slot) []interfaces.Slot { return slots }

// table is the full command surface, in generation-index order.
// PING is deliberately first: the all-zero decision mapping lands on it.
var table = []interfaces.CommandSpec{
	// Connection and general commands.
	{Name: "PING"},
	{Name: "ECHO", Args: req(val())},
	{Name: "INFO", Optional: opt(flag("SERVER", "CLIENTS", "MEMORY", "PERSISTENCE", "STATS", "REPLICATION", "CPU", "KEYSPACE"))},
	{Name: "TIME"},
	{Name: "AUTH", Args: req(val()), Optional: opt(val())},
	{Name: "SELECT", Args: req(num())},
	{Name: "RESET"},

	// Key space commands.
	{Name: "DEL", Args: req(key()), Optional: opt(keys())},
	{Name: "EXISTS", Args: req(key()), Optional: opt(keys())},
	{Name: "EXPIRE", Args: req(key(), num()), Optional: opt(flag("NX", "XX", "GT", "LT"))},
	{Name: "TTL", Args: req(key())},
	{Name: "PERSIST", Args: req(key())},
	{Name: "TYPE", Args: req(key())},
	{Name: "RENAME", Args: req(key(), key())},
	{Name: "RENAMENX", Args: req(key(), key())},
	{Name: "KEYS", Args: req(pat())},
	{Name: "SCAN", Args: req(num()), Optional: opt(flag("MATCH"), pat(), flag("COUNT"), num())},

	// String commands.
	{Name: "SET", Args: req(key(), val()), Optional: opt(flag("EX"), num(), flag("NX", "XX"))},
	{Name: "GET", Args: req(key())},
	{Name: "MGET", Args: req(key()), Optional: opt(keys())},
	{Name: "MSET", Args: req(key(), val()), Optional: opt(interfaces.Slot{Shape: interfaces.ShapeKey, Variadic: true}, interfaces.Slot{Shape: interfaces.ShapeValue})},
	{Name: "INCR", Args: req(key())},
	{Name: "INCRBY", Args: req(key(), num())},
	{Name: "DECR", Args: req(key())},
	{Name: "DECRBY", Args: req(key(), num())},
	{Name: "APPEND", Args: req(key(), val())},
	{Name: "STRLEN", Args: req(key())},
	{Name: "GETRANGE", Args: req(key(), num(), num())},
	{Name: "SETRANGE", Args: req(key(), num(), val())},
	{Name: "LCS", Args: req(key(), key()), Optional: opt(flag("LEN", "IDX"))},

	// List commands.
	{Name: "LPUSH", Args: req(key(), val()), Optional: opt(vals())},
	{Name: "RPUSH", Args: req(key(), val()), Optional: opt(vals())},
	{Name: "LPOP", Args: req(key()), Optional: opt(num())},
	{Name: "RPOP", Args: req(key()), Optional: opt(num())},
	{Name: "LLEN", Args: req(key())},
	{Name: "LRANGE", Args: req(key(), num(), num())},
	{Name: "LINDEX", Args: req(key(), num())},
	{Name: "LSET", Args: req(key(), num(), val())},
	{Name: "LTRIM", Args: req(key(), num(), num())},

	// Hash commands.
	{Name: "HSET", Args: req(key(), val(), val()), Optional: opt(vals())},
	{Name: "HSETNX", Args: req(key(), val(), val())},
	{Name: "HGET", Args: req(key(), val())},
	{Name: "HMGET", Args: req(key(), val()), Optional: opt(vals())},
	{Name: "HGETALL", Args: req(key())},
	{Name: "HDEL", Args: req(key(), val()), Optional: opt(vals())},
	{Name: "HEXISTS", Args: req(key(), val())},
	{Name: "HLEN", Args: req(key())},
	{Name: "HKEYS", Args: req(key())},
	{Name: "HVALS", Args: req(key())},
	{Name: "HINCRBY", Args: req(key(), val(), num())},
	{Name: "HSCAN", Args: req(key(), num()), Optional: opt(flag("MATCH"), pat(), flag("COUNT"), num())},

	// Set commands.
	{Name: "SADD", Args: req(key(), val()), Optional: opt(vals())},
	{Name: "SREM", Args: req(key(), val()), Optional: opt(vals())},
	{Name: "SISMEMBER", Args: req(key(), val())},
	{Name: "SMEMBERS", Args: req(key())},
	{Name: "SCARD", Args: req(key())},
	{Name: "SPOP", Args: req(key()), Optional: opt(num())},
	{Name: "SRANDMEMBER", Args: req(key()), Optional: opt(num())},
	{Name: "SINTER", Args: req(key()), Optional: opt(keys())},
	{Name: "SUNION", Args: req(key()), Optional: opt(keys())},
	{Name: "SDIFF", Args: req(key()), Optional: opt(keys())},
	{Name: "SSCAN", Args: req(key(), num()), Optional: opt(flag("MATCH"), pat(), flag("COUNT"), num())},

	// Sorted set commands.
	{Name: "ZADD", Args: req(key(), score(), val()), Optional: opt(flag("NX", "XX"), interfaces.Slot{Shape: interfaces.ShapeScore, Variadic: true}, val())},
	{Name: "ZREM", Args: req(key(), val()), Optional: opt(vals())},
	{Name: "ZRANGE", Args: req(key(), num(), num()), Optional: opt(flag("WITHSCORES"), flag("REV", "BYSCORE", "BYLEX"))},
	{Name: "ZCARD", Args: req(key())},
	{Name: "ZSCORE", Args: req(key(), val())},
	{Name: "ZRANK", Args: req(key(), val())},
	{Name: "ZINCRBY", Args: req(key(), score(), val())},
	{Name: "ZCOUNT", Args: req(key(), score(), score())},
	{Name: "ZPOPMAX", Args: req(key()), Optional: opt(num())},
	{Name: "ZPOPMIN", Args: req(key()), Optional: opt(num())},
	{Name: "ZRANGEBYSCORE", Args: req(key(), score(), score()), Optional: opt(flag("WITHSCORES"), flag("LIMIT"), num(), num())},
	{Name: "ZREMRANGEBYRANK", Args: req(key(), num(), num())},
	{Name: "ZREMRANGEBYSCORE", Args: req(key(), score(), score())},
	{Name: "ZRANDMEMBER", Args: req(key()), Optional: opt(num(), flag("WITHSCORES"))},
	{Name: "ZSCAN", Args: req(key(), num()), Optional: opt(flag("MATCH"), pat(), flag("COUNT"), num())},

	// Bitmap commands.
	{Name: "BITCOUNT", Args: req(key()), Optional: opt(num(), num(), flag("BYTE", "BIT"))},
	{Name: "BITOP", Args: req(flag("AND", "OR", "XOR", "NOT"), key(), key()), Optional: opt(keys())},
	{Name: "BITPOS", Args: req(key(), flag("0", "1")), Optional: opt(num(), num())},
	{Name: "GETBIT", Args: req(key(), num())},
	{Name: "SETBIT", Args: req(key(), num(), flag("0", "1"))},

	// HyperLogLog commands.
	{Name: "PFADD", Args: req(key(), val()), Optional: opt(vals())},
	{Name: "PFCOUNT", Args: req(key()), Optional: opt(keys())},
	{Name: "PFMERGE", Args: req(key(), key()), Optional: opt(keys())},

	// Pub/Sub (non-blocking side only).
	{Name: "PUBLISH", Args: req(key(), val())},
	{Name: "PUBSUB", Args: req(flag("CHANNELS", "NUMPAT", "NUMSUB"))},
	{Name: "SPUBLISH", Args: req(key(), val())},

	// Transactions.
	{Name: "MULTI"},
	{Name: "EXEC"},
	{Name: "DISCARD"},
	{Name: "WATCH", Args: req(key()), Optional: opt(keys())},
	{Name: "UNWATCH"},

	// Scripting.
	{Name: "EVAL", Args: req(val(), num()), Optional: opt(keys(), vals())},
	{Name: "EVALSHA", Args: req(val(), num()), Optional: opt(keys(), vals())},
	{Name: "SCRIPT", Args: req(flag("EXISTS", "FLUSH", "LOAD"))},

	// Streams.
	{Name: "XADD", Args: req(key(), streamID(), val(), val()), Optional: opt(vals())},
	{Name: "XRANGE", Args: req(key(), streamID(), streamID()), Optional: opt(flag("COUNT"), num())},
	{Name: "XREVRANGE", Args: req(key(), streamID(), streamID()), Optional: opt(flag("COUNT"), num())},
	{Name: "XLEN", Args: req(key())},
	{Name: "XDEL", Args: req(key(), streamID()), Optional: opt(interfaces.Slot{Shape: interfaces.ShapeStreamID, Variadic: true})},
	{Name: "XTRIM", Args: req(key(), flag("MAXLEN", "MINID"), num()), Optional: opt(flag("LIMIT"), num())},
	{Name: "XSETID", Args: req(key(), streamID())},
	{Name: "XGROUP CREATE", Args: req(key(), val(), streamID()), Optional: opt(flag("MKSTREAM"))},
	{Name: "XGROUP DESTROY", Args: req(key(), val())},
	{Name: "XACK", Args: req(key(), val(), streamID())},
	{Name: "XINFO STREAM", Args: req(key())},
	{Name: "XINFO GROUPS", Args: req(key())},
	{Name: "XPENDING", Args: req(key(), val())},

	// GEO commands.
	{Name: "GEOADD", Args: req(key(), flt(), flt(), val())},
	{Name: "GEODIST", Args: req(key(), val(), val()), Optional: opt(flag("m", "km", "ft", "mi"))},
	{Name: "GEOHASH", Args: req(key(), val()), Optional: opt(vals())},
	{Name: "GEOPOS", Args: req(key(), val()), Optional: opt(vals())},
	{Name: "GEOSEARCH", Args: req(key(), flag("FROMMEMBER"), val(), flag("BYRADIUS"), flt(), flag("m", "km", "ft", "mi")), Optional: opt(flag("ASC", "DESC"), flag("COUNT"), num())},

	// Server administration.
	{Name: "DBSIZE"},
	{Name: "CONFIG GET", Args: req(pat())},
	{Name: "CLIENT", Args: req(flag("ID", "GETNAME", "LIST", "INFO", "NO-EVICT"))},
	{Name: "COMMAND", Optional: opt(flag("COUNT", "DOCS", "LIST"))},
	{Name: "DEBUG", Args: req(flag("SLEEP", "OBJECT", "STRINGMATCH-LEN", "JMAP"))},
	{Name: "MEMORY USAGE", Args: req(key()), Optional: opt(flag("SAMPLES"), num())},
	{Name: "LASTSAVE"},
	{Name: "LOLWUT", Optional: opt(flag("VERSION"), num())},
	{Name: "ROLE"},
	{Name: "SAVE"},
	{Name: "BGSAVE", Optional: opt(flag("SCHEDULE"))},
	{Name: "BGREWRITEAOF"},
	{Name: "SWAPDB", Args: req(num(), num())},
	{Name: "LATENCY LATEST"},
	{Name: "LATENCY RESET"},
	{Name: "SLOWLOG GET", Optional: opt(num())},

	// Destructive admin commands: present in the table so that exclusion
	// policy, not table absence, is what keeps them out of the traffic.
	{Name: "FLUSHDB", Optional: opt(flag("ASYNC", "SYNC"))},
	{Name: "FLUSHALL", Optional: opt(flag("ASYNC", "SYNC"))},
	{Name: "SHUTDOWN", Optional: opt(flag("NOSAVE", "SAVE", "NOW", "FORCE"))},

	// Cluster introspection (read-only subcommands).
	{Name: "CLUSTER INFO"},
	{Name: "CLUSTER MYID"},
	{Name: "CLUSTER SLOTS"},
	{Name: "CLUSTER SHARDS"},
	{Name: "CLUSTER KEYSLOT", Args: req(key())},
	{Name: "CLUSTER COUNTKEYSINSLOT", Args: req(num())},
	{Name: "READONLY"},
	{Name: "READWRITE"},

	// ACL commands.
	{Name: "ACL CAT"},
	{Name: "ACL LIST"},
	{Name: "ACL WHOAMI"},
	{Name: "ACL GETUSER", Args: req(val())},
	{Name: "ACL GENPASS", Optional: opt(num())},

	// JSON commands.
	{Name: "JSON.SET", Args: req(key(), val(), jsonv()), Optional: opt(flag("NX", "XX"))},
	{Name: "JSON.GET", Args: req(key()), Optional: opt(val())},
	{Name: "JSON.DEL", Args: req(key()), Optional: opt(val())},
	{Name: "JSON.TYPE", Args: req(key()), Optional: opt(val())},
	{Name: "JSON.ARRAPPEND", Args: req(key(), val(), jsonv()), Optional: opt(interfaces.Slot{Shape: interfaces.ShapeJSON, Variadic: true})},
	{Name: "JSON.ARRLEN", Args: req(key()), Optional: opt(val())},
	{Name: "JSON.OBJKEYS", Args: req(key()), Optional: opt(val())},
	{Name: "JSON.NUMINCRBY", Args: req(key(), val(), flt())},
	{Name: "JSON.STRLEN", Args: req(key()), Optional: opt(val())},
	{Name: "JSON.TOGGLE", Args: req(key(), val())},
	{Name: "JSON.CLEAR", Args: req(key()), Optional: opt(val())},

	// Bloom filter commands.
	{Name: "BF.ADD", Args: req(key(), val())},
	{Name: "BF.EXISTS", Args: req(key(), val())},
	{Name: "BF.MADD", Args: req(key(), val()), Optional: opt(vals())},
	{Name: "BF.MEXISTS", Args: req(key(), val()), Optional: opt(vals())},
	{Name: "BF.RESERVE", Args: req(key(), flt(), num()), Optional: opt(flag("EXPANSION"), num(), flag("NONSCALING"))},
	{Name: "BF.INFO", Args: req(key())},
	{Name: "BF.CARD", Args: req(key())},

	// Cuckoo filter commands.
	{Name: "CF.ADD", Args: req(key(), val())},
	{Name: "CF.ADDNX", Args: req(key(), val())},
	{Name: "CF.COUNT", Args: req(key(), val())},
	{Name: "CF.DEL", Args: req(key(), val())},
	{Name: "CF.EXISTS", Args: req(key(), val())},
	{Name: "CF.RESERVE", Args: req(key(), num()), Optional: opt(flag("BUCKETSIZE"), num(), flag("MAXITERATIONS"), num())},
	{Name: "CF.INFO", Args: req(key())},

	// Count-min sketch commands.
	{Name: "CMS.INITBYDIM", Args: req(key(), num(), num())},
	{Name: "CMS.INITBYPROB", Args: req(key(), flt(), flt())},
	{Name: "CMS.INCRBY", Args: req(key(), val(), num())},
	{Name: "CMS.QUERY", Args: req(key(), val()), Optional: opt(vals())},
	{Name: "CMS.INFO", Args: req(key())},

	// Search commands (Dragonfly FT.* family).
	{Name: "FT._LIST"},
	{Name: "FT.CREATE", Args: req(key(), flag("ON"), flag("HASH", "JSON"), flag("SCHEMA"), val(), flag("TEXT", "NUMERIC", "TAG", "VECTOR"))},
	{Name: "FT.DROPINDEX", Args: req(key()), Optional: opt(flag("DD"))},
	{Name: "FT.INFO", Args: req(key())},
	{Name: "FT.SEARCH", Args: req(key(), val()), Optional: opt(flag("NOCONTENT"), flag("LIMIT"), num(), num())},

	// Vector commands (Dragonfly V* family).
	{Name: "VADD", Args: req(key(), val(), vec()), Optional: opt(flag("DIMENSIONS"), num())},
	{Name: "VCREATE", Args: req(key(), num()), Optional: opt(flag("ALGORITHM"), flag("FLAT", "HNSW"), flag("DISTANCE_METRIC"), flag("L2", "IP", "COSINE"))},
	{Name: "VDEL", Args: req(key(), val()), Optional: opt(vals())},
	{Name: "VDIM", Args: req(key())},
	{Name: "VEXISTS", Args: req(key(), val())},
	{Name: "VGET", Args: req(key(), val())},
	{Name: "VINFO", Args: req(key())},
	{Name: "VSIM", Args: req(key(), vec()), Optional: opt(flag("K"), num(), flag("RADIUS"), flt())},
	{Name: "VSETATTR", Args: req(key(), val(), jsonv())},

	// Dragonfly-specific extras.
	{Name: "DF.STATS"},
	{Name: "DF.INFO"},
	{Name: "CL.THROTTLE", Args: req(key(), num(), num(), num()), Optional: opt(num())},
	{Name: "HEXPIRE", Args: req(key(), num())},
	{Name: "CAS", Args: req(key(), val(), val())},
}

// Catalog is the immutable command table, indexed by name.
type Catalog struct {
	names []string
	specs map[string]*interfaces.CommandSpec
}

// New builds the catalog from the static table.
func New() *Catalog {
	c := &Catalog{
		names: make([]string, 0, len(table)),
		specs: make(map[string]*interfaces.CommandSpec, len(table)),
	}
	for i := range table {
		spec := &table[i]
		c.names = append(c.names, spec.Name)
		c.specs[spec.Name] = spec
	}
	return c
}

// AllNames returns every command name in table order.
// The returned slice is shared; callers must not mutate it.
func (c *Catalog) AllNames() []string {
	return c.names
}

// Spec returns the spec for a command name.
func (c *Catalog) Spec(name string) (*interfaces.CommandSpec, bool) {
	spec, ok := c.specs[name]
	return spec, ok
}

// Has reports whether the catalog knows the given command name.
func (c *Catalog) Has(name string) bool {
	_, ok := c.specs[name]
	return ok
}

// Size returns the number of commands in the catalog.
func (c *Catalog) Size() int {
	return len(c.names)
}

// NamesExcluding returns the command names not present in the given set,
// preserving table order.
func (c *Catalog) NamesExcluding(exclude map[string]struct{}) []string {
	names := make([]string, 0, len(c.names))
	for _, name := range c.names {
		if _, skip := exclude[name]; skip {
			continue
		}
		names = append(names, name)
	}
	return names
}
