package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/mooner2666/inke3/config"
	"github.com/mooner2666/inke3/packages/authsdk"

	"github.com/spf13/cobra"
)

// newTokenCmd 本地调试用，签发与身份服务格式一致的令牌
func newTokenCmd() *cobra.Command {
	var (
		userID   string
		username string
		secret   string
		ttl      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "签发调试用 JWT",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return errors.New("必须指定 --user-id")
			}
			if secret == "" {
				if err := config.Load(configPath); err != nil {
					return err
				}
				secret = config.Conf.JWT.Secret
			}
			if secret == "" {
				return errors.New("JWT 密钥为空")
			}

			token, err := authsdk.SignToken(authsdk.UserContext{UserID: userID, Username: username}, secret, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user-id", "", "用户 ID")
	cmd.Flags().StringVar(&username, "username", "", "用户名")
	cmd.Flags().StringVar(&secret, "secret", "", "JWT 密钥，默认读取配置文件")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "有效期")
	return cmd
}
