package snowflake

import (
	"os"
	"strconv"

	"github.com/bwmarrin/snowflake"
)

var node *snowflake.Node

func init() {
	// 多实例部署时通过 SNOWFLAKE_NODE 区分节点，范围 0-1023
	n, err := strconv.ParseInt(os.Getenv("SNOWFLAKE_NODE"), 10, 64)
	if err != nil || n < 0 || n > 1023 {
		n = 1
	}
	node, _ = snowflake.NewNode(n)
}

// GenID 事件ID、连接ID
func GenID() int64 {
	return node.Generate().Int64()
}

// GenString 字符串形式，用作 unique_identifier
func GenString() string {
	return node.Generate().String()
}
