package api

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/sirupsen/logrus"

	"github.com/openclaw/clawctl/internal/models"
)

const natGatewayWait = 5 * time.Minute

// ensureNetwork converges the VPC, two public and two private subnets across
// two availability zones, the internet gateway, the NAT gateway for
// private-subnet egress, and the route tables.
func (d *Deployer) ensureNetwork(ctx context.Context) error {
	vpcID, err := d.ensureVpc(ctx)
	if err != nil {
		return err
	}

	azs, err := d.pickAvailabilityZones(ctx)
	if err != nil {
		return err
	}

	subnetCidrs := map[string]string{
		"public-a":  subnetCidr(d.cfg.VpcCidr, 0),
		"public-b":  subnetCidr(d.cfg.VpcCidr, 1),
		"private-a": subnetCidr(d.cfg.VpcCidr, 2),
		"private-b": subnetCidr(d.cfg.VpcCidr, 3),
	}
	subnetAzs := map[string]string{
		"public-a": azs[0], "public-b": azs[1],
		"private-a": azs[0], "private-b": azs[1],
	}
	for _, suffix := range []string{"public-a", "public-b", "private-a", "private-b"} {
		if _, err := d.ensureSubnet(ctx, vpcID, suffix, subnetCidrs[suffix], subnetAzs[suffix]); err != nil {
			return err
		}
	}

	igwID, err := d.ensureInternetGateway(ctx, vpcID)
	if err != nil {
		return err
	}
	natID, err := d.ensureNatGateway(ctx)
	if err != nil {
		return err
	}
	if err := d.ensureRouteTable(ctx, vpcID, "public-rt", "gateway", igwID, []string{"public-a", "public-b"}); err != nil {
		return err
	}
	return d.ensureRouteTable(ctx, vpcID, "private-rt", "nat", natID, []string{"private-a", "private-b"})
}

func (d *Deployer) ensureVpc(ctx context.Context) (string, error) {
	name := d.name("vpc")
	r := d.state.Lookup("aws_vpc", name)
	if r == nil {
		out, err := d.ec2.CreateVpc(ctx, &ec2.CreateVpcInput{
			CidrBlock:         aws.String(d.cfg.VpcCidr),
			TagSpecifications: d.ec2Tags(ec2types.ResourceTypeVpc, name),
		})
		if err != nil {
			return "", fmt.Errorf("Unable to create VPC. Error: %v", err)
		}
		// Recorded before any follow-up call so a failure between here and
		// the rest of the configuration still leaves the VPC destroyable.
		if err := d.record(models.Resource{Type: "aws_vpc", Name: name, ID: aws.ToString(out.Vpc.VpcId),
			Attributes: map[string]string{"cidr_block": d.cfg.VpcCidr}}); err != nil {
			return "", err
		}
		r = d.state.Lookup("aws_vpc", name)
		logrus.Infof("created VPC %s (%s)", r.ID, d.cfg.VpcCidr)
	}

	// The DNS firewall and the internal ALB both need resolver support and
	// private DNS hostnames inside the VPC.
	if r.Attr("dns_enabled") == "" {
		for _, attr := range []*ec2.ModifyVpcAttributeInput{
			{VpcId: aws.String(r.ID), EnableDnsSupport: &ec2types.AttributeBooleanValue{Value: aws.Bool(true)}},
			{VpcId: aws.String(r.ID), EnableDnsHostnames: &ec2types.AttributeBooleanValue{Value: aws.Bool(true)}},
		} {
			if _, err := d.ec2.ModifyVpcAttribute(ctx, attr); err != nil {
				return "", fmt.Errorf("Unable to enable VPC DNS attributes. Error: %v", err)
			}
		}
		r.SetAttr("dns_enabled", "true")
		if err := d.record(*r); err != nil {
			return "", err
		}
	}
	return r.ID, nil
}

func (d *Deployer) pickAvailabilityZones(ctx context.Context) ([]string, error) {
	out, err := d.ec2.DescribeAvailabilityZones(ctx, &ec2.DescribeAvailabilityZonesInput{
		Filters: []ec2types.Filter{{Name: aws.String("state"), Values: []string{"available"}}},
	})
	if err != nil {
		return nil, fmt.Errorf("Unable to describe availability zones. Error: %v", err)
	}
	if len(out.AvailabilityZones) < 2 {
		return nil, fmt.Errorf("region %s has fewer than two available zones", d.cfg.Region)
	}
	return []string{
		aws.ToString(out.AvailabilityZones[0].ZoneName),
		aws.ToString(out.AvailabilityZones[1].ZoneName),
	}, nil
}

func (d *Deployer) ensureSubnet(ctx context.Context, vpcID, suffix, cidr, az string) (string, error) {
	name := d.name(suffix)
	if r := d.state.Lookup("aws_subnet", name); r != nil {
		return r.ID, nil
	}
	out, err := d.ec2.CreateSubnet(ctx, &ec2.CreateSubnetInput{
		VpcId:             aws.String(vpcID),
		CidrBlock:         aws.String(cidr),
		AvailabilityZone:  aws.String(az),
		TagSpecifications: d.ec2Tags(ec2types.ResourceTypeSubnet, name),
	})
	if err != nil {
		return "", fmt.Errorf("Unable to create subnet %s. Error: %v", name, err)
	}
	subnetID := aws.ToString(out.Subnet.SubnetId)
	logrus.Infof("created subnet %s (%s, %s)", subnetID, cidr, az)
	return subnetID, d.record(models.Resource{Type: "aws_subnet", Name: name, ID: subnetID,
		Attributes: map[string]string{"cidr_block": cidr, "availability_zone": az}})
}

func (d *Deployer) ensureInternetGateway(ctx context.Context, vpcID string) (string, error) {
	name := d.name("igw")
	r := d.state.Lookup("aws_internet_gateway", name)
	if r == nil {
		out, err := d.ec2.CreateInternetGateway(ctx, &ec2.CreateInternetGatewayInput{
			TagSpecifications: d.ec2Tags(ec2types.ResourceTypeInternetGateway, name),
		})
		if err != nil {
			return "", fmt.Errorf("Unable to create internet gateway. Error: %v", err)
		}
		if err := d.record(models.Resource{Type: "aws_internet_gateway", Name: name,
			ID:         aws.ToString(out.InternetGateway.InternetGatewayId),
			Attributes: map[string]string{"vpc_id": vpcID}}); err != nil {
			return "", err
		}
		r = d.state.Lookup("aws_internet_gateway", name)
	}
	if r.Attr("attached") == "" {
		if _, err := d.ec2.AttachInternetGateway(ctx, &ec2.AttachInternetGatewayInput{
			InternetGatewayId: aws.String(r.ID),
			VpcId:             aws.String(vpcID),
		}); err != nil {
			return "", fmt.Errorf("Unable to attach internet gateway. Error: %v", err)
		}
		r.SetAttr("attached", "true")
		if err := d.record(*r); err != nil {
			return "", err
		}
	}
	return r.ID, nil
}

func (d *Deployer) ensureNatGateway(ctx context.Context) (string, error) {
	eipName := d.name("nat-eip")
	allocationID := ""
	if r := d.state.Lookup("aws_eip", eipName); r != nil {
		allocationID = r.ID
	} else {
		out, err := d.ec2.AllocateAddress(ctx, &ec2.AllocateAddressInput{
			Domain:            ec2types.DomainTypeVpc,
			TagSpecifications: d.ec2Tags(ec2types.ResourceTypeElasticIp, eipName),
		})
		if err != nil {
			return "", fmt.Errorf("Unable to allocate elastic IP. Error: %v", err)
		}
		allocationID = aws.ToString(out.AllocationId)
		if err := d.record(models.Resource{Type: "aws_eip", Name: eipName, ID: allocationID}); err != nil {
			return "", err
		}
	}

	name := d.name("nat")
	if r := d.state.Lookup("aws_nat_gateway", name); r != nil {
		return r.ID, nil
	}
	publicSubnet := d.state.Lookup("aws_subnet", d.name("public-a"))
	out, err := d.ec2.CreateNatGateway(ctx, &ec2.CreateNatGatewayInput{
		SubnetId:          aws.String(publicSubnet.ID),
		AllocationId:      aws.String(allocationID),
		TagSpecifications: d.ec2Tags(ec2types.ResourceTypeNatgateway, name),
	})
	if err != nil {
		return "", fmt.Errorf("Unable to create NAT gateway. Error: %v", err)
	}
	natID := aws.ToString(out.NatGateway.NatGatewayId)
	if err := d.record(models.Resource{Type: "aws_nat_gateway", Name: name, ID: natID,
		Attributes: map[string]string{"subnet_id": publicSubnet.ID, "allocation_id": allocationID}}); err != nil {
		return "", err
	}

	logrus.Infof("waiting for NAT gateway %s", natID)
	waiter := ec2.NewNatGatewayAvailableWaiter(d.ec2)
	if err := waiter.Wait(ctx, &ec2.DescribeNatGatewaysInput{NatGatewayIds: []string{natID}}, natGatewayWait); err != nil {
		return "", fmt.Errorf("NAT gateway %s never became available. Error: %v", natID, err)
	}
	return natID, nil
}

// ensureRouteTable builds one route table with a default route through either
// the internet gateway (public) or the NAT gateway (private) and associates
// the named subnets.
func (d *Deployer) ensureRouteTable(ctx context.Context, vpcID, suffix, targetKind, targetID string, subnets []string) error {
	name := d.name(suffix)
	r := d.state.Lookup("aws_route_table", name)
	if r == nil {
		out, err := d.ec2.CreateRouteTable(ctx, &ec2.CreateRouteTableInput{
			VpcId:             aws.String(vpcID),
			TagSpecifications: d.ec2Tags(ec2types.ResourceTypeRouteTable, name),
		})
		if err != nil {
			return fmt.Errorf("Unable to create route table %s. Error: %v", name, err)
		}
		if err := d.record(models.Resource{Type: "aws_route_table", Name: name,
			ID:         aws.ToString(out.RouteTable.RouteTableId),
			Attributes: map[string]string{"vpc_id": vpcID}}); err != nil {
			return err
		}
		r = d.state.Lookup("aws_route_table", name)
	}

	if r.Attr("default_route") == "" {
		route := &ec2.CreateRouteInput{
			RouteTableId:         aws.String(r.ID),
			DestinationCidrBlock: aws.String("0.0.0.0/0"),
		}
		if targetKind == "gateway" {
			route.GatewayId = aws.String(targetID)
		} else {
			route.NatGatewayId = aws.String(targetID)
		}
		if _, err := d.ec2.CreateRoute(ctx, route); err != nil {
			return fmt.Errorf("Unable to create default route for %s. Error: %v", name, err)
		}
		r.SetAttr("default_route", targetID)
		if err := d.record(*r); err != nil {
			return err
		}
	}

	for _, subnetSuffix := range subnets {
		if r.Attr("association_"+subnetSuffix) != "" {
			continue
		}
		subnet := d.state.Lookup("aws_subnet", d.name(subnetSuffix))
		assoc, err := d.ec2.AssociateRouteTable(ctx, &ec2.AssociateRouteTableInput{
			RouteTableId: aws.String(r.ID),
			SubnetId:     aws.String(subnet.ID),
		})
		if err != nil {
			return fmt.Errorf("Unable to associate %s with %s. Error: %v", subnet.Name, name, err)
		}
		r.SetAttr("association_"+subnetSuffix, aws.ToString(assoc.AssociationId))
		if err := d.record(*r); err != nil {
			return err
		}
	}
	return nil
}

// subnetCidr carves /24 blocks out of the VPC CIDR by index. The VPC CIDR is
// only locally assumed to be a.b.0.0/16 shaped; anything else is left for the
// AWS API to reject.
func subnetCidr(vpcCidr string, index int) string {
	var a, b, c, d, bits int
	if _, err := fmt.Sscanf(vpcCidr, "%d.%d.%d.%d/%d", &a, &b, &c, &d, &bits); err != nil {
		return vpcCidr
	}
	return fmt.Sprintf("%d.%d.%d.0/24", a, b, c+index)
}
