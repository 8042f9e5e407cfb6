package api

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/route53resolver"
	resolvertypes "github.com/aws/aws-sdk-go-v2/service/route53resolver/types"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/openclaw/clawctl/internal/clawerrors"
	"github.com/openclaw/clawctl/internal/models"
	"github.com/openclaw/clawctl/internal/policy"
)

// associationPriority sits between the reserved bounds of Route 53 Resolver
// rule group associations (must be greater than 100 and less than 9900).
const associationPriority = 101

// ensureFirewall converges the egress DNS firewall: an allowlist domain list,
// a wildcard block list, a rule group with the ALLOW rule at priority 100 and
// the BLOCK-all rule returning NXDOMAIN at priority 200, and the association
// with the VPC. The allow rule must sort before the block rule: first match
// wins, so reversing the order would black-hole all egress resolution.
//
// This only filters name resolution. Egress to a destination whose IP is
// already known bypasses the firewall; that is a stated limitation.
func (d *Deployer) ensureFirewall(ctx context.Context) error {
	allowListID, err := d.ensureDomainList(ctx, "allow-domains")
	if err != nil {
		return err
	}
	if err := d.syncAllowedDomains(ctx, allowListID); err != nil {
		return err
	}

	blockListID, err := d.ensureDomainList(ctx, "block-all")
	if err != nil {
		return err
	}
	if r := d.state.Lookup("aws_route53_resolver_firewall_domain_list", d.name("block-all")); r.Attr("populated") == "" {
		if _, err := d.resolver.UpdateFirewallDomains(ctx, &route53resolver.UpdateFirewallDomainsInput{
			FirewallDomainListId: aws.String(blockListID),
			Operation:            resolvertypes.FirewallDomainUpdateOperationAdd,
			Domains:              []string{"*"},
		}); err != nil {
			return fmt.Errorf("Unable to populate the block-all domain list. Error: %v", err)
		}
		r.Attributes = map[string]string{"populated": "true"}
		if err := d.record(*r); err != nil {
			return err
		}
	}

	groupID, err := d.ensureRuleGroup(ctx, allowListID, blockListID)
	if err != nil {
		return err
	}
	return d.ensureRuleGroupAssociation(ctx, groupID)
}

func (d *Deployer) ensureDomainList(ctx context.Context, suffix string) (string, error) {
	name := d.name(suffix)
	if r := d.state.Lookup("aws_route53_resolver_firewall_domain_list", name); r != nil {
		return r.ID, nil
	}
	out, err := d.resolver.CreateFirewallDomainList(ctx, &route53resolver.CreateFirewallDomainListInput{
		CreatorRequestId: aws.String(uuid.NewString()),
		Name:             aws.String(name),
	})
	if err != nil {
		return "", fmt.Errorf("Unable to create firewall domain list %s. Error: %v", name, err)
	}
	id := aws.ToString(out.FirewallDomainList.Id)
	return id, d.record(models.Resource{
		Type: "aws_route53_resolver_firewall_domain_list", Name: name, ID: id,
		ARN: aws.ToString(out.FirewallDomainList.Arn),
	})
}

// syncAllowedDomains converges the provisioned allow set to exactly the
// configured one. Reapplying with an unchanged configuration is a no-op.
func (d *Deployer) syncAllowedDomains(ctx context.Context, listID string) error {
	current, err := d.listFirewallDomains(ctx, listID)
	if err != nil {
		return err
	}
	add, remove := policy.DiffDomains(current, d.cfg.AllowedDomains)
	if len(add) > 0 {
		if _, err := d.resolver.UpdateFirewallDomains(ctx, &route53resolver.UpdateFirewallDomainsInput{
			FirewallDomainListId: aws.String(listID),
			Operation:            resolvertypes.FirewallDomainUpdateOperationAdd,
			Domains:              add,
		}); err != nil {
			return fmt.Errorf("Unable to add domains to the allowlist. Error: %v", err)
		}
	}
	if len(remove) > 0 {
		if _, err := d.resolver.UpdateFirewallDomains(ctx, &route53resolver.UpdateFirewallDomainsInput{
			FirewallDomainListId: aws.String(listID),
			Operation:            resolvertypes.FirewallDomainUpdateOperationRemove,
			Domains:              remove,
		}); err != nil {
			return fmt.Errorf("Unable to remove domains from the allowlist. Error: %v", err)
		}
	}
	if len(add) > 0 || len(remove) > 0 {
		logrus.Infof("egress allowlist converged: %d added, %d removed", len(add), len(remove))
	}
	return nil
}

func (d *Deployer) listFirewallDomains(ctx context.Context, listID string) ([]string, error) {
	domains := make([]string, 0)
	var nextToken *string
	for {
		out, err := d.resolver.ListFirewallDomains(ctx, &route53resolver.ListFirewallDomainsInput{
			FirewallDomainListId: aws.String(listID),
			NextToken:            nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("Unable to list firewall domains. Error: %v", err)
		}
		domains = append(domains, out.Domains...)
		if out.NextToken == nil {
			return domains, nil
		}
		nextToken = out.NextToken
	}
}

func (d *Deployer) ensureRuleGroup(ctx context.Context, allowListID, blockListID string) (string, error) {
	name := d.name("egress-rules")
	r := d.state.Lookup("aws_route53_resolver_firewall_rule_group", name)
	if r == nil {
		out, err := d.resolver.CreateFirewallRuleGroup(ctx, &route53resolver.CreateFirewallRuleGroupInput{
			CreatorRequestId: aws.String(uuid.NewString()),
			Name:             aws.String(name),
		})
		if err != nil {
			return "", fmt.Errorf("Unable to create firewall rule group. Error: %v", err)
		}
		// The group goes into state before its rules exist, so an
		// interrupted run neither orphans it nor creates a second one.
		if err := d.record(models.Resource{
			Type: "aws_route53_resolver_firewall_rule_group", Name: name,
			ID:  aws.ToString(out.FirewallRuleGroup.Id),
			ARN: aws.ToString(out.FirewallRuleGroup.Arn),
		}); err != nil {
			return "", err
		}
		r = d.state.Lookup("aws_route53_resolver_firewall_rule_group", name)
	}

	if r.Attr("allow_domain_list_id") == "" {
		if _, err := d.resolver.CreateFirewallRule(ctx, &route53resolver.CreateFirewallRuleInput{
			CreatorRequestId:     aws.String(uuid.NewString()),
			FirewallRuleGroupId:  aws.String(r.ID),
			FirewallDomainListId: aws.String(allowListID),
			Priority:             aws.Int32(policy.AllowPriority),
			Action:               resolvertypes.ActionAllow,
			Name:                 aws.String("allow-approved-egress"),
		}); err != nil {
			return "", fmt.Errorf("Unable to create the allow rule. Error: %v", err)
		}
		r.SetAttr("allow_domain_list_id", allowListID)
		if err := d.record(*r); err != nil {
			return "", err
		}
	}
	if r.Attr("block_domain_list_id") == "" {
		if _, err := d.resolver.CreateFirewallRule(ctx, &route53resolver.CreateFirewallRuleInput{
			CreatorRequestId:     aws.String(uuid.NewString()),
			FirewallRuleGroupId:  aws.String(r.ID),
			FirewallDomainListId: aws.String(blockListID),
			Priority:             aws.Int32(policy.BlockPriority),
			Action:               resolvertypes.ActionBlock,
			BlockResponse:        resolvertypes.BlockResponseNxdomain,
			Name:                 aws.String("block-everything-else"),
		}); err != nil {
			return "", fmt.Errorf("Unable to create the block rule. Error: %v", err)
		}
		r.SetAttr("block_domain_list_id", blockListID)
		if err := d.record(*r); err != nil {
			return "", err
		}
	}
	return r.ID, nil
}

func (d *Deployer) ensureRuleGroupAssociation(ctx context.Context, groupID string) error {
	name := d.name("egress-rules-assoc")
	if r := d.state.Lookup("aws_route53_resolver_firewall_rule_group_association", name); r != nil {
		return nil
	}
	vpc := d.state.Lookup("aws_vpc", d.name("vpc"))
	out, err := d.resolver.AssociateFirewallRuleGroup(ctx, &route53resolver.AssociateFirewallRuleGroupInput{
		CreatorRequestId:    aws.String(uuid.NewString()),
		FirewallRuleGroupId: aws.String(groupID),
		VpcId:               aws.String(vpc.ID),
		Priority:            aws.Int32(associationPriority),
		Name:                aws.String(name),
	})
	if err != nil {
		return fmt.Errorf("Unable to associate the firewall rule group with the VPC. Error: %v", err)
	}
	return d.record(models.Resource{
		Type: "aws_route53_resolver_firewall_rule_group_association", Name: name,
		ID:         aws.ToString(out.FirewallRuleGroupAssociation.Id),
		Attributes: map[string]string{"vpc_id": vpc.ID, "rule_group_id": groupID},
	})
}

// CurrentAllowlist returns the provisioned egress allow set, or the
// configured one when the firewall is not deployed yet.
func CurrentAllowlist(ctx context.Context) ([]string, bool, error) {
	d, err := NewDeployer(ctx)
	if err != nil {
		return nil, false, err
	}
	return d.currentAllowlist(ctx)
}

func (d *Deployer) currentAllowlist(ctx context.Context) ([]string, bool, error) {
	r := d.state.Lookup("aws_route53_resolver_firewall_domain_list", d.name("allow-domains"))
	if r == nil {
		return d.cfg.AllowedDomains, false, nil
	}
	domains, err := d.listFirewallDomains(ctx, r.ID)
	if err != nil {
		return nil, false, err
	}
	return domains, true, nil
}

// SyncAllowlist converges the deployed DNS firewall allow set to the
// configured allowed_domains.
func SyncAllowlist(ctx context.Context) error {
	d, err := NewDeployer(ctx)
	if err != nil {
		return err
	}
	r := d.state.Lookup("aws_route53_resolver_firewall_domain_list", d.name("allow-domains"))
	if r == nil {
		return clawerrors.ErrStateNotFound{Environment: d.cfg.Environment}
	}
	return d.syncAllowedDomains(ctx, r.ID)
}
