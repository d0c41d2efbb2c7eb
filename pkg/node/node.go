package node

import (
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
)

var (
	once sync.Once
	// 服务唯一ID
	serverId string
)

// ID 当前节点标识，格式 ip:pid，同机多进程不冲突
func ID() string {
	once.Do(func() {
		ip, err := localIP()
		if err != nil {
			ip = "127.0.0.1"
		}
		serverId = fmt.Sprintf("%s:%d", ip, os.Getpid())
	})
	return serverId
}

func localIP() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", err
	}
	for _, address := range addrs {
		// 检查 ip 网络地址，排除回环地址
		if ipnet, ok := address.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil {
				return ipnet.IP.String(), nil
			}
		}
	}
	return "", errors.New("no ip address found")
}
