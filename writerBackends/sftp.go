package writerbackends

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"strings"
	"time"

	"hiredesk/config"
	"hiredesk/logger"
	"hiredesk/media"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// SFTPUploader copies the original file into a directory on a remote host
// that is exposed over HTTP at cfg.PublicURL.
type SFTPUploader struct {
	cfg  config.SFTPConfig
	auth ssh.AuthMethod
}

// NewSFTPUploader validates host, user, public URL and auth before any dial.
func NewSFTPUploader(cfg config.SFTPConfig) (*SFTPUploader, error) {
	if err := requireFields("sftp",
		field{"host", cfg.Host},
		field{"user", cfg.User},
		field{"public url", cfg.PublicURL},
	); err != nil {
		return nil, err
	}
	if cfg.Port == "" {
		cfg.Port = "22"
	}

	var auth ssh.AuthMethod
	switch {
	case cfg.PrivateKey != "":
		// try to decode as base64, fall back to raw
		keyBytes, err := base64.StdEncoding.DecodeString(cfg.PrivateKey)
		if err != nil {
			keyBytes = []byte(cfg.PrivateKey)
		}
		signer, err := ssh.ParsePrivateKey(keyBytes)
		if err != nil {
			return nil, fmt.Errorf("%w: parse sftp private key: %v", media.ErrConfiguration, err)
		}
		auth = ssh.PublicKeys(signer)
	case cfg.Password != "":
		auth = ssh.Password(cfg.Password)
	default:
		return nil, fmt.Errorf("%w: sftp requires a password or private key", media.ErrConfiguration)
	}

	return &SFTPUploader{cfg: cfg, auth: auth}, nil
}

func (u *SFTPUploader) Upload(ctx context.Context, in media.Input) (media.UploadResult, error) {
	sshConfig := &ssh.ClientConfig{
		User:            u.cfg.User,
		Auth:            []ssh.AuthMethod{u.auth},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         10 * time.Second,
	}
	addr := net.JoinHostPort(u.cfg.Host, u.cfg.Port)

	// Dial respecting context
	d := net.Dialer{}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return media.UploadResult{}, fmt.Errorf("%w: dial tcp %s: %v", media.ErrNetwork, addr, err)
	}

	clientConn, chans, reqs, err := ssh.NewClientConn(conn, addr, sshConfig)
	if err != nil {
		conn.Close()
		return media.UploadResult{}, fmt.Errorf("%w: ssh handshake with %s: %v", media.ErrNetwork, addr, err)
	}
	sshClient := ssh.NewClient(clientConn, chans, reqs)
	defer sshClient.Close()

	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		return media.UploadResult{}, fmt.Errorf("%w: create sftp client: %v", media.ErrNetwork, err)
	}
	defer sftpClient.Close()

	key := objectKey("", in)
	remotePath := path.Join(u.cfg.RemoteDir, key)
	if err := mkdirAllSFTP(sftpClient, path.Dir(remotePath)); err != nil {
		return media.UploadResult{}, fmt.Errorf("%w: ensure remote dir: %v", media.ErrNetwork, err)
	}

	f, err := sftpClient.Create(remotePath)
	if err != nil {
		return media.UploadResult{}, fmt.Errorf("%w: create remote file %s: %v", media.ErrNetwork, remotePath, err)
	}
	if err := writeRemote(f, in.Data); err != nil {
		return media.UploadResult{}, fmt.Errorf("%w: remote file %s: %v", media.ErrNetwork, remotePath, err)
	}

	logger.Debugf("Uploaded '%s' to %s", remotePath, addr)
	return media.UploadResult{URL: joinURL(u.cfg.PublicURL, key), ExternalID: remotePath}, nil
}

// writeRemote copies data into f and closes it. A failed Close means the
// server did not accept the final write, so it fails the upload.
func writeRemote(f io.WriteCloser, data []byte) error {
	if _, err := io.Copy(f, bytes.NewReader(data)); err != nil {
		f.Close()
		return fmt.Errorf("copy: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return nil
}

// mkdirAllSFTP mimics os.MkdirAll for an SFTP server by creating each segment of the path.
func mkdirAllSFTP(client *sftp.Client, dir string) error {
	if dir == "" || dir == "." || dir == "/" {
		return nil
	}

	cur := ""
	if strings.HasPrefix(dir, "/") {
		cur = "/"
	}
	for _, p := range strings.Split(dir, "/") {
		if p == "" {
			continue
		}
		cur = path.Join(cur, p)
		if _, err := client.Stat(cur); err != nil {
			if !os.IsNotExist(err) {
				return fmt.Errorf("stat %s: %w", cur, err)
			}
			if err := client.Mkdir(cur); err != nil {
				return fmt.Errorf("mkdir %s: %w", cur, err)
			}
		}
	}
	return nil
}
