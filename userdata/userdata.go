// Package userdata renders the self-contained bootstrap script embedded into
// each POC instance at launch. The script installs the Kasm Workspaces
// platform, self-registers DNS for the environment's subdomain and obtains a
// TLS certificate, all on first boot without further orchestrator involvement.
package userdata

import (
	"encoding/base64"
	"fmt"
	"strings"
	"text/template"
)

const (
	kasmVersion          = "1.18.1"
	dockerComposeVersion = "2.40.2"
	swapSizeMB           = 8192
)

// Params are the per-environment values interpolated into the script. Every
// value passes through shell single-quoting at render time; the template is
// the only place raw strings meet the script.
type Params struct {
	EnvID        string
	Username     string
	Password     string
	Region       string
	BaseDomain   string
	HostedZoneID string
}

var scriptTemplate = template.Must(template.New("bootstrap").Funcs(template.FuncMap{
	"squote": Quote,
}).Parse(`#!/bin/bash
LOG=/var/log/kasm-install.log
exec > >(tee -a $LOG) 2>&1
set -e

echo "==== Kasm Full Auto Setup Started ===="

KASM_USER={{squote .Username}}
KASM_PASS={{squote .Password}}

SUBDOMAIN={{squote .EnvID}}
BASE_DOMAIN={{squote .BaseDomain}}
DOMAIN="$SUBDOMAIN.$BASE_DOMAIN"
REGION={{squote .Region}}
HOSTED_ZONE_ID={{squote .HostedZoneID}}

apt update -y && apt upgrade -y

if ! swapon --show | grep -q '/swapfile'; then
  fallocate -l 8G /swapfile
  chmod 600 /swapfile
  mkswap /swapfile
  swapon /swapfile
  echo '/swapfile none swap sw 0 0' >> /etc/fstab
fi

apt install -y curl unzip jq certbot awscli docker.io dnsutils
systemctl enable docker
systemctl start docker

DOCKER_COMPOSE_VERSION={{squote .ComposeVersion}}
curl -SL "https://github.com/docker/compose/releases/download/v$DOCKER_COMPOSE_VERSION/docker-compose-linux-x86_64" \
  -o /usr/local/bin/docker-compose
chmod +x /usr/local/bin/docker-compose
ln -sf /usr/local/bin/docker-compose /usr/bin/docker-compose

cd /tmp
curl -O "https://kasm-static-content.s3.amazonaws.com/kasm_release_{{.KasmVersion}}.tar.gz"
tar -xf "kasm_release_{{.KasmVersion}}.tar.gz"

export KASM_EULA=accept
bash kasm_release/install.sh --accept-eula --swap-size {{.SwapSizeMB}} --admin-password "$KASM_PASS"

sleep 60

INSTANCE_ID=$(curl -s http://169.254.169.254/latest/meta-data/instance-id)

ALLOC_ID=$(aws ec2 describe-addresses \
  --filters Name=instance-id,Values="$INSTANCE_ID" \
  --region "$REGION" \
  --query 'Addresses[0].AllocationId' \
  --output text)

if [ "$ALLOC_ID" = "None" ] || [ -z "$ALLOC_ID" ]; then
  ALLOC_ID=$(aws ec2 allocate-address --domain vpc --region "$REGION" --query AllocationId --output text)
  aws ec2 associate-address --instance-id "$INSTANCE_ID" --allocation-id "$ALLOC_ID" --region "$REGION"
fi

PUBLIC_IP=$(aws ec2 describe-addresses \
  --allocation-ids "$ALLOC_ID" \
  --region "$REGION" \
  --query 'Addresses[0].PublicIp' \
  --output text)

cat >/tmp/route53.json <<EOF
{
  "Comment": "Auto update Kasm DNS",
  "Changes": [
    {
      "Action": "UPSERT",
      "ResourceRecordSet": {
        "Name": "$DOMAIN",
        "Type": "A",
        "TTL": 300,
        "ResourceRecords": [{ "Value": "$PUBLIC_IP" }]
      }
    }
  ]
}
EOF

aws route53 change-resource-record-sets \
  --hosted-zone-id "$HOSTED_ZONE_ID" \
  --change-batch file:///tmp/route53.json

docker stop kasm_proxy || true

certbot certonly --standalone \
  -d "$DOMAIN" \
  --agree-tos \
  --email "admin@$BASE_DOMAIN" \
  --non-interactive

KASM_CERT_DIR="/opt/kasm/current/certs"
CERTBOT_LIVE_DIR="/etc/letsencrypt/live/$DOMAIN"

cp "$CERTBOT_LIVE_DIR/fullchain.pem" "$KASM_CERT_DIR/kasm_nginx.crt"
cp "$CERTBOT_LIVE_DIR/privkey.pem" "$KASM_CERT_DIR/kasm_nginx.key"

docker start kasm_proxy

echo "==== Kasm + DNS + SSL FULLY CONFIGURED ===="
`))

type templateData struct {
	Params
	KasmVersion    string
	ComposeVersion string
	SwapSizeMB     int
}

// Render produces the bootstrap script for one environment.
func Render(params Params) (string, error) {
	if params.EnvID == "" {
		return "", fmt.Errorf("envId is required")
	}
	if params.Password == "" {
		return "", fmt.Errorf("admin password is required")
	}

	var sb strings.Builder
	err := scriptTemplate.Execute(&sb, templateData{
		Params:         params,
		KasmVersion:    kasmVersion,
		ComposeVersion: dockerComposeVersion,
		SwapSizeMB:     swapSizeMB,
	})
	if err != nil {
		return "", fmt.Errorf("render bootstrap script: %w", err)
	}
	return sb.String(), nil
}

// Encode wraps the rendered script as the base64 EC2 user-data payload.
func Encode(script string) string {
	return base64.StdEncoding.EncodeToString([]byte(script))
}

// Quote returns s as a single-quoted shell word. Embedded single quotes are
// closed, escaped and reopened, so the result is safe regardless of content.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
