// Command mabnews 训练 bandit 新闻推荐模型并为用户生成推荐。
//
//	mabnews train                       # 读取交互分片，训练并保存快照
//	mabnews recommend --user <id>       # 打印用户历史与推荐标题
//	mabnews select --draws 10           # 离线查看 SelectArm 的选择
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
